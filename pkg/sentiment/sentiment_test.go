package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(p float64) Scorer {
	return ScorerFunc(func(context.Context, string) (float64, error) { return p, nil })
}

func TestClassifyThresholds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		polarity float64
		want     Label
	}{
		{"strongly positive", 0.8, Positive},
		{"just above positive cutoff", 0.1000001, Positive},
		{"positive cutoff is neutral", 0.1, Neutral},
		{"zero", 0, Neutral},
		{"negative cutoff is neutral", -0.1, Neutral},
		{"just below negative cutoff", -0.1000001, Negative},
		{"strongly negative", -1, Negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(ctx, fixed(tt.polarity), "text")
			assert.Equal(t, tt.want, res.Label)
			assert.True(t, res.Scored)
			assert.NoError(t, res.Err)
			assert.InDelta(t, tt.polarity, res.Polarity, 1e-12)
		})
	}
}

func TestClassifyFallsBackToNeutral(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("scorer error", func(t *testing.T) {
		res := Classify(ctx, ScorerFunc(func(context.Context, string) (float64, error) {
			return 0.9, boom
		}), "a wonderful dream")
		assert.Equal(t, Neutral, res.Label)
		assert.True(t, res.Fallback())
		assert.ErrorIs(t, res.Err, boom)
	})

	t.Run("not a number", func(t *testing.T) {
		res := Classify(ctx, fixed(math.NaN()), "text")
		assert.Equal(t, Neutral, res.Label)
		assert.ErrorIs(t, res.Err, ErrInvalidScore)
	})

	t.Run("out of range", func(t *testing.T) {
		res := Classify(ctx, fixed(3), "text")
		assert.Equal(t, Neutral, res.Label)
		assert.ErrorIs(t, res.Err, ErrInvalidScore)
	})

	t.Run("nil scorer", func(t *testing.T) {
		res := Classify(ctx, nil, "text")
		assert.Equal(t, Neutral, res.Label)
		assert.ErrorIs(t, res.Err, ErrScorerMissing)
	})

	t.Run("empty text with vader", func(t *testing.T) {
		res := Classify(ctx, NewVaderScorer(), "   ")
		assert.Equal(t, Neutral, res.Label)
		assert.False(t, res.Scored)
		assert.ErrorIs(t, res.Err, ErrEmptyText)
	})
}

func TestVaderScorer(t *testing.T) {
	ctx := context.Background()
	s := NewVaderScorer()

	p, err := s.Polarity(ctx, "I was so happy and the meadow was wonderful")
	require.NoError(t, err)
	assert.Greater(t, p, 0.5)
	assert.LessOrEqual(t, p, 1.0)

	p, err = s.Polarity(ctx, "I was terrified and scared.")
	require.NoError(t, err)
	assert.Less(t, p, -0.5)
	assert.GreaterOrEqual(t, p, -1.0)

	p, err = s.Polarity(ctx, "I walked to the table")
	require.NoError(t, err)
	assert.Zero(t, p)

	assert.Equal(t, Positive, Classify(ctx, s, "I was flying over a beautiful city at night.").Label)
	assert.Equal(t, Negative, Classify(ctx, s, "I was not happy").Label)
	assert.Equal(t, Negative, Classify(ctx, s, "A horrible dream, I was lost.").Label)
}

func TestVaderScorerHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Classify(ctx, NewVaderScorer(), "happy")
	assert.Equal(t, Neutral, res.Label)
	assert.ErrorIs(t, res.Err, context.Canceled)
}
