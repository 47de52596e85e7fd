package analysis

import "github.com/unowned-ai/reverie/pkg/dreams"

// EmotionPoint places one dream's emotion on a day.
type EmotionPoint struct {
	Day     string `json:"day"`
	Emotion string `json:"emotion"`
}

// EmotionTimeline returns one point per dream in collection order.
func EmotionTimeline(records []dreams.Dream) []EmotionPoint {
	points := make([]EmotionPoint, len(records))
	for i, d := range records {
		points[i] = EmotionPoint{Day: d.Day(), Emotion: d.EmotionLabel()}
	}
	return points
}

// SleepQualitySeries returns the sleep quality of each dream in collection
// order together with the mean. The mean of an empty series is 0.
func SleepQualitySeries(records []dreams.Dream) ([]float64, float64) {
	series := make([]float64, len(records))
	if len(records) == 0 {
		return series, 0
	}
	sum := 0.0
	for i, d := range records {
		series[i] = float64(d.SleepQuality)
		sum += series[i]
	}
	return series, sum / float64(len(records))
}

// WordCloud ranks the words of every title, description and tag. A limit
// <= 0 uses WordCloudLimit.
func WordCloud(records []dreams.Dream, limit int) []Count {
	if limit <= 0 {
		limit = WordCloudLimit
	}
	c := newCounter()
	for _, d := range records {
		for _, w := range Words(d.Title) {
			c.add(w)
		}
		for _, w := range Words(d.Description) {
			c.add(w)
		}
		for _, tag := range d.Tags {
			for _, w := range Words(tag) {
				c.add(w)
			}
		}
	}
	return c.mostCommon(limit)
}

// EmotionCounts tallies the emotion timeline by label, in first-seen order.
func EmotionCounts(points []EmotionPoint) []Count {
	c := newCounter()
	for _, p := range points {
		c.add(p.Emotion)
	}
	return c.items()
}
