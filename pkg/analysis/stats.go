// Package analysis turns a dream collection into statistics, rule-based
// insights, plain-text reports and chart series. Everything here is a pure
// function of its input; callers recompute over the whole collection.
package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/unowned-ai/reverie/pkg/dreams"
	"github.com/unowned-ai/reverie/pkg/sentiment"
)

// Ranking sizes.
const (
	TopTagsLimit   = 5
	TopWordsLimit  = 10
	RecentLimit    = 5
	NoneEmotion    = "None"
	WordCloudLimit = 100
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Count is one entry of a frequency table.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SentimentCounts tallies dreams per sentiment label.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Stats is the aggregate view of a dream collection.
type Stats struct {
	Empty               bool            `json:"empty"`
	Total               int             `json:"total"`
	LucidCount          int             `json:"lucid_count"`
	LucidPercentage     float64         `json:"lucid_percentage"`
	AverageSleepQuality float64         `json:"average_sleep_quality"`
	Emotions            []Count         `json:"emotions"`
	MostCommonEmotion   Count           `json:"most_common_emotion"`
	Sentiment           SentimentCounts `json:"sentiment"`
	PositivePercentage  float64         `json:"positive_percentage"`
	TopTags             []Count         `json:"top_tags"`
	TopWords            []Count         `json:"top_words"`
	Recent              []dreams.Dream  `json:"recent"`
}

// Aggregate computes Stats over records. An empty collection yields
// zero-filled stats with Empty set.
func Aggregate(records []dreams.Dream) Stats {
	stats := Stats{
		Empty:             len(records) == 0,
		Total:             len(records),
		Emotions:          []Count{},
		MostCommonEmotion: Count{Name: NoneEmotion},
		TopTags:           []Count{},
		TopWords:          []Count{},
		Recent:            []dreams.Dream{},
	}
	if stats.Empty {
		return stats
	}

	emotions := newCounter()
	tags := newCounter()
	sleepTotal := 0
	descriptions := make([]string, 0, len(records))

	for _, d := range records {
		if d.Lucid {
			stats.LucidCount++
		}
		sleepTotal += d.SleepQuality
		emotions.add(d.EmotionLabel())

		switch d.Sentiment {
		case sentiment.Positive:
			stats.Sentiment.Positive++
		case sentiment.Negative:
			stats.Sentiment.Negative++
		case sentiment.Neutral, "":
			stats.Sentiment.Neutral++
		}

		for _, tag := range d.Tags {
			tags.add(tag)
		}
		descriptions = append(descriptions, d.Description)
	}

	total := float64(stats.Total)
	stats.LucidPercentage = float64(stats.LucidCount) / total * 100
	stats.AverageSleepQuality = float64(sleepTotal) / total
	stats.PositivePercentage = float64(stats.Sentiment.Positive) / total * 100

	stats.Emotions = emotions.items()
	if top := emotions.mostCommon(1); len(top) > 0 {
		stats.MostCommonEmotion = top[0]
	}
	stats.TopTags = tags.mostCommon(TopTagsLimit)
	stats.TopWords = countWords(strings.Join(descriptions, " ")).mostCommon(TopWordsLimit)
	stats.Recent = recent(records, RecentLimit)

	return stats
}

// recent returns up to n records sorted by date, newest first. Records with
// equal dates keep their collection order.
func recent(records []dreams.Dream, n int) []dreams.Dream {
	sorted := append([]dreams.Dream{}, records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Words splits text into lowercase word tokens.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

func countWords(text string) *counter {
	c := newCounter()
	for _, w := range Words(text) {
		c.add(w)
	}
	return c
}

// counter is a frequency table that remembers first-seen order, which breaks
// ties in mostCommon.
type counter struct {
	index  map[string]int
	counts []Count
}

func newCounter() *counter {
	return &counter{index: map[string]int{}}
}

func (c *counter) add(name string) {
	if i, ok := c.index[name]; ok {
		c.counts[i].Count++
		return
	}
	c.index[name] = len(c.counts)
	c.counts = append(c.counts, Count{Name: name, Count: 1})
}

// items returns all entries in first-seen order.
func (c *counter) items() []Count {
	return append([]Count{}, c.counts...)
}

// mostCommon returns the n highest counts. n <= 0 returns every entry.
func (c *counter) mostCommon(n int) []Count {
	out := c.items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
