// Package sentiment classifies free text as positive, negative or neutral
// on top of a pluggable polarity scorer.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Label is the coarse sentiment of a piece of text.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Polarity cutoffs. Scores strictly above PositiveThreshold are positive and
// scores strictly below NegativeThreshold are negative.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

var (
	ErrEmptyText     = errors.New("empty text")
	ErrInvalidScore  = errors.New("polarity out of range")
	ErrScorerMissing = errors.New("no polarity scorer configured")
)

// Scorer maps text to a polarity in [-1, 1].
type Scorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(ctx context.Context, text string) (float64, error)

func (f ScorerFunc) Polarity(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

// Result is the outcome of a classification. Scored is false when the scorer
// failed and the label fell back to Neutral; Err then carries the cause.
type Result struct {
	Label    Label
	Polarity float64
	Scored   bool
	Err      error
}

// Fallback reports whether the label is a fallback rather than a score.
func (r Result) Fallback() bool {
	return !r.Scored
}

// Classify scores text and buckets the polarity. Scorer failures never
// surface as errors; they degrade to a neutral fallback.
func Classify(ctx context.Context, scorer Scorer, text string) Result {
	if scorer == nil {
		return Result{Label: Neutral, Err: ErrScorerMissing}
	}

	p, err := scorer.Polarity(ctx, text)
	if err != nil {
		return Result{Label: Neutral, Err: fmt.Errorf("polarity scorer failed: %w", err)}
	}
	if math.IsNaN(p) || p < -1 || p > 1 {
		return Result{Label: Neutral, Err: fmt.Errorf("%w: %v", ErrInvalidScore, p)}
	}

	return Result{Label: labelFor(p), Polarity: p, Scored: true}
}

func labelFor(p float64) Label {
	switch {
	case p > PositiveThreshold:
		return Positive
	case p < NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}
