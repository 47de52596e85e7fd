package dreams

import (
	"github.com/unowned-ai/reverie/pkg/sentiment"
)

// DateLayout is the fixed timestamp layout of Dream.Date. Timestamps in this
// layout sort lexicographically in chronological order.
const DateLayout = "2006-01-02 15:04:05"

// Quality bounds for Dream.SleepQuality.
const (
	MinSleepQuality = 1
	MaxSleepQuality = 10

	// DefaultSleepQuality is used when no quality is given.
	DefaultSleepQuality = 5
)

// UnknownEmotion labels dreams recorded without an emotion.
const UnknownEmotion = "Unknown"

// Emotions is the label set offered by the entry forms.
var Emotions = []string{
	"Happy", "Scared", "Confused", "Excited", "Sad",
	"Anxious", "Peaceful", "Angry", "Curious", "Nostalgic",
}

// Dream is a single journaled dream. The JSON field names are the on-disk
// format and must not change.
type Dream struct {
	ID           int             `json:"id"`
	Date         string          `json:"date"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Emotion      string          `json:"emotion"`
	Lucid        bool            `json:"lucid"`
	Tags         []string        `json:"tags"`
	SleepQuality int             `json:"sleep_quality"`
	Sentiment    sentiment.Label `json:"sentiment"`
}

// Day returns the YYYY-MM-DD prefix of the dream's timestamp.
func (d Dream) Day() string {
	if len(d.Date) < 10 {
		return d.Date
	}
	return d.Date[:10]
}

// EmotionLabel returns the emotion, or UnknownEmotion when none was recorded.
func (d Dream) EmotionLabel() string {
	if d.Emotion == "" {
		return UnknownEmotion
	}
	return d.Emotion
}

// Input holds the raw form fields for a new dream.
type Input struct {
	Title        string
	Description  string
	Emotion      string
	Lucid        bool
	Tags         string // comma-separated
	SleepQuality int
}
