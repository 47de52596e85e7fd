package sentiment

import (
	"context"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// sharedAnalyzer parses the VADER lexicon once per process. The analyzer only
// reads its tables after construction, so it is shared between scorers.
var sharedAnalyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// VaderScorer scores text with the VADER compound polarity, which is already
// normalized to [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer returns a scorer backed by the bundled VADER lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: sharedAnalyzer()}
}

func (s *VaderScorer) Polarity(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyText
	}
	return s.analyzer.PolarityScores(text).Compound, nil
}
