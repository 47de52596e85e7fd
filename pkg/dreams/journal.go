package dreams

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/unowned-ai/reverie/pkg/sentiment"
	"go.uber.org/zap"
)

// Journal is the in-memory dream collection of one session, loaded from and
// flushed to a Store. The mutex serializes load, append and save so that a
// Journal shared by long-lived callers never loses a write.
type Journal struct {
	mu        sync.Mutex
	dreams    []Dream
	store     Store
	scorer    sentiment.Scorer
	now       func() time.Time
	logger    *zap.Logger
	fallbacks int
}

// Option configures a Journal.
type Option func(*Journal)

// WithScorer sets the polarity scorer used to label new dreams.
func WithScorer(s sentiment.Scorer) Option {
	return func(j *Journal) { j.scorer = s }
}

// WithClock overrides the clock used to stamp new dreams.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(j *Journal) { j.logger = l }
}

// CreateResult describes a successful Create. Mutated tells the caller the
// collection changed and any view of it should be refreshed.
type CreateResult struct {
	Dream     Dream
	Mutated   bool
	Sentiment sentiment.Result
}

// Open loads the journal from store. Stores report a missing or malformed
// journal as empty, so any error here means the stored dreams could not be
// read; Open returns it rather than start a journal that would overwrite them.
func Open(ctx context.Context, store Store, opts ...Option) (*Journal, error) {
	j := &Journal{
		store:  store,
		scorer: sentiment.NewVaderScorer(),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.logger == nil {
		j.logger = zap.NewNop()
	}

	dreams, err := store.Load(ctx)
	if err != nil {
		j.logger.Error("failed to load dreams", zap.Error(err))
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	if dreams == nil {
		dreams = []Dream{}
	}
	j.dreams = dreams
	j.logger.Debug("journal loaded", zap.Int("dreams", len(dreams)))
	return j, nil
}

// Create validates in, stamps and labels a new dream, appends it and saves
// the journal. Validation failures leave the journal untouched. A save
// failure returns a *PersistenceError together with a valid result: the dream
// stays in memory.
func (j *Journal) Create(ctx context.Context, in Input) (CreateResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return CreateResult{}, ErrEmptyTitle
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return CreateResult{}, ErrEmptyDescription
	}

	res := sentiment.Classify(ctx, j.scorer, description)

	j.mu.Lock()
	defer j.mu.Unlock()

	if res.Fallback() {
		j.fallbacks++
		j.logger.Warn("sentiment scoring fell back to neutral", zap.Error(res.Err), zap.Int("fallbacks", j.fallbacks))
	}

	dream := Dream{
		ID:           len(j.dreams) + 1,
		Date:         j.now().Format(DateLayout),
		Title:        title,
		Description:  description,
		Emotion:      strings.TrimSpace(in.Emotion),
		Lucid:        in.Lucid,
		Tags:         ParseTags(in.Tags),
		SleepQuality: ClampSleepQuality(in.SleepQuality),
		Sentiment:    res.Label,
	}
	j.dreams = append(j.dreams, dream)

	result := CreateResult{Dream: dream, Mutated: true, Sentiment: res}
	if err := j.store.Save(ctx, j.dreams); err != nil {
		j.logger.Error("failed to save dreams, keeping new dream in memory", zap.Int("id", dream.ID), zap.Error(err))
		return result, &PersistenceError{Err: err}
	}

	j.logger.Info("dream saved", zap.Int("id", dream.ID), zap.String("sentiment", string(dream.Sentiment)))
	return result, nil
}

// Flush saves the current collection, for retrying after a PersistenceError.
func (j *Journal) Flush(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.store.Save(ctx, j.dreams); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}

// All returns a copy of the dreams in append order.
func (j *Journal) All() []Dream {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Dream, len(j.dreams))
	for i, d := range j.dreams {
		d.Tags = append([]string{}, d.Tags...)
		out[i] = d
	}
	return out
}

func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.dreams)
}

// FallbackCount reports how many dreams were labelled neutral because the
// scorer failed.
func (j *Journal) FallbackCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fallbacks
}

// Search runs a keyword search over the journal.
func (j *Journal) Search(query string) []Dream {
	return Search(j.All(), query)
}

// ClampSleepQuality forces q into [MinSleepQuality, MaxSleepQuality].
func ClampSleepQuality(q int) int {
	if q < MinSleepQuality {
		return MinSleepQuality
	}
	if q > MaxSleepQuality {
		return MaxSleepQuality
	}
	return q
}
