package dreams

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/unowned-ai/reverie/pkg/sentiment"
)

// memStore is an in-memory Store that can be told to fail.
type memStore struct {
	saved   []Dream
	saves   int
	loadErr error
	saveErr error
}

func (s *memStore) Load(ctx context.Context) ([]Dream, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]Dream{}, s.saved...), nil
}

func (s *memStore) Save(ctx context.Context, dreams []Dream) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append([]Dream{}, dreams...)
	return nil
}

var testNow = time.Date(2024, 3, 9, 7, 15, 42, 0, time.Local)

func fixedClock() time.Time { return testNow }

func setupTestJournal(t *testing.T, store Store, opts ...Option) *Journal {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	j, err := Open(context.Background(), store, opts...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return j
}

func TestCreateDream(t *testing.T) {
	store := &memStore{}
	j := setupTestJournal(t, store)
	ctx := context.Background()

	res, err := j.Create(ctx, Input{
		Title:        "  Flying over the city  ",
		Description:  "  I was flying over a beautiful city at night.  ",
		Emotion:      "Excited",
		Lucid:        true,
		Tags:         "flying, city,, night ,",
		SleepQuality: 8,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !res.Mutated {
		t.Errorf("Expected Create to report a mutation")
	}

	d := res.Dream
	if d.ID != 1 {
		t.Errorf("Expected id 1, got %d", d.ID)
	}
	if d.Date != "2024-03-09 07:15:42" {
		t.Errorf("Expected date 2024-03-09 07:15:42, got %s", d.Date)
	}
	if d.Title != "Flying over the city" {
		t.Errorf("Expected trimmed title, got %q", d.Title)
	}
	if d.Description != "I was flying over a beautiful city at night." {
		t.Errorf("Expected trimmed description, got %q", d.Description)
	}
	if !reflect.DeepEqual(d.Tags, []string{"flying", "city", "night"}) {
		t.Errorf("Unexpected tags %v", d.Tags)
	}
	if d.Sentiment != sentiment.Positive {
		t.Errorf("Expected positive sentiment, got %s", d.Sentiment)
	}
	if !res.Sentiment.Scored {
		t.Errorf("Expected sentiment to be scored, got fallback: %v", res.Sentiment.Err)
	}

	if store.saves != 1 || len(store.saved) != 1 {
		t.Fatalf("Expected one save of one dream, got %d saves of %d dreams", store.saves, len(store.saved))
	}
	if !reflect.DeepEqual(store.saved[0], d) {
		t.Errorf("Stored dream doesn't match created dream: %+v vs %+v", store.saved[0], d)
	}

	second, err := j.Create(ctx, Input{Title: "Second", Description: "Another one", SleepQuality: 5})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if second.Dream.ID != 2 {
		t.Errorf("Expected id 2, got %d", second.Dream.ID)
	}
	if len(second.Dream.Tags) != 0 || second.Dream.Tags == nil {
		t.Errorf("Expected empty non-nil tags, got %#v", second.Dream.Tags)
	}
}

func TestCreateDreamValidation(t *testing.T) {
	store := &memStore{}
	j := setupTestJournal(t, store)
	ctx := context.Background()

	_, err := j.Create(ctx, Input{Title: "   ", Description: "text", SleepQuality: 5})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}

	_, err = j.Create(ctx, Input{Title: "title", Description: "\n\t", SleepQuality: 5})
	if !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("Expected ErrEmptyDescription, got %v", err)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "description" {
		t.Errorf("Expected a description ValidationError, got %v", err)
	}
	if !IsValidation(err) {
		t.Errorf("Expected IsValidation to recognise %v", err)
	}

	if j.Len() != 0 {
		t.Errorf("Expected journal to be untouched, has %d dreams", j.Len())
	}
	if store.saves != 0 {
		t.Errorf("Expected no saves after validation failures, got %d", store.saves)
	}
}

func TestCreateDreamClampsSleepQuality(t *testing.T) {
	j := setupTestJournal(t, &memStore{})
	ctx := context.Background()

	low, _ := j.Create(ctx, Input{Title: "a", Description: "b", SleepQuality: 0})
	high, _ := j.Create(ctx, Input{Title: "a", Description: "b", SleepQuality: 42})
	mid, _ := j.Create(ctx, Input{Title: "a", Description: "b", SleepQuality: 6})

	if low.Dream.SleepQuality != MinSleepQuality {
		t.Errorf("Expected %d, got %d", MinSleepQuality, low.Dream.SleepQuality)
	}
	if high.Dream.SleepQuality != MaxSleepQuality {
		t.Errorf("Expected %d, got %d", MaxSleepQuality, high.Dream.SleepQuality)
	}
	if mid.Dream.SleepQuality != 6 {
		t.Errorf("Expected 6, got %d", mid.Dream.SleepQuality)
	}
}

func TestCreateDreamPersistenceFailureKeepsDream(t *testing.T) {
	diskFull := errors.New("disk full")
	store := &memStore{saveErr: diskFull}
	j := setupTestJournal(t, store)
	ctx := context.Background()

	res, err := j.Create(ctx, Input{Title: "Kept", Description: "Still here", SleepQuality: 5})

	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	if !errors.Is(err, diskFull) {
		t.Errorf("Expected PersistenceError to wrap the store error, got %v", err)
	}
	if !res.Mutated || res.Dream.ID != 1 {
		t.Errorf("Expected the new dream in the result, got %+v", res)
	}
	if j.Len() != 1 {
		t.Errorf("Expected the dream to stay in memory, journal has %d dreams", j.Len())
	}

	store.saveErr = nil
	if err := j.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if len(store.saved) != 1 {
		t.Errorf("Expected flush to persist 1 dream, got %d", len(store.saved))
	}
}

func TestCreateDreamScorerFallback(t *testing.T) {
	failing := sentiment.ScorerFunc(func(context.Context, string) (float64, error) {
		return 0, errors.New("scorer offline")
	})
	j := setupTestJournal(t, &memStore{}, WithScorer(failing))

	res, err := j.Create(context.Background(), Input{Title: "t", Description: "a wonderful dream", SleepQuality: 5})
	if err != nil {
		t.Fatalf("Scorer failures must not surface, got %v", err)
	}
	if res.Dream.Sentiment != sentiment.Neutral {
		t.Errorf("Expected neutral fallback, got %s", res.Dream.Sentiment)
	}
	if !res.Sentiment.Fallback() {
		t.Errorf("Expected the result to be marked as a fallback")
	}
	if j.FallbackCount() != 1 {
		t.Errorf("Expected 1 fallback, got %d", j.FallbackCount())
	}
}

func TestOpenRefusesUnreadableStore(t *testing.T) {
	store := &memStore{loadErr: errors.New("permission denied")}

	j, err := Open(context.Background(), store)
	if err == nil {
		t.Fatalf("Expected Open to fail when the store cannot be read")
	}
	if !errors.Is(err, store.loadErr) {
		t.Errorf("Expected the load error to be wrapped, got %v", err)
	}
	if j != nil {
		t.Errorf("Expected no journal on a failed load")
	}
	if store.saves != 0 {
		t.Errorf("Expected no saves after a failed load, got %d", store.saves)
	}
}

// flakyStore fails the first failLoads calls to Load.
type flakyStore struct {
	Store
	failLoads int
}

func (s *flakyStore) Load(ctx context.Context) ([]Dream, error) {
	if s.failLoads > 0 {
		s.failLoads--
		return nil, errors.New("database is locked")
	}
	return s.Store.Load(ctx)
}

func TestTransientLoadFailureKeepsStoredDreams(t *testing.T) {
	ctx := context.Background()
	file := NewFileStore(filepath.Join(t.TempDir(), "dreams.json"))
	if err := file.Save(ctx, sampleDreams()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	store := &flakyStore{Store: file, failLoads: 1}
	if _, err := Open(ctx, store); err == nil {
		t.Fatalf("Expected Open to report the locked store")
	}

	j := setupTestJournal(t, store)
	res, err := j.Create(ctx, Input{Title: "Third", Description: "d", SleepQuality: 5})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if res.Dream.ID != 3 {
		t.Errorf("Expected id 3 after the stored dreams, got %d", res.Dream.ID)
	}

	stored, err := file.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("Expected 3 stored dreams, got %d", len(stored))
	}
	if !reflect.DeepEqual(stored[:2], sampleDreams()) {
		t.Errorf("Stored dreams changed:\n got %#v\nwant %#v", stored[:2], sampleDreams())
	}
}

func TestAllReturnsCopy(t *testing.T) {
	j := setupTestJournal(t, &memStore{})
	ctx := context.Background()
	if _, err := j.Create(ctx, Input{Title: "t", Description: "d", Tags: "a,b", SleepQuality: 5}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	all := j.All()
	all[0].Title = "changed"
	all[0].Tags[0] = "changed"

	again := j.All()
	if again[0].Title != "t" || again[0].Tags[0] != "a" {
		t.Errorf("Mutating the result of All changed the journal: %+v", again[0])
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" flying , ,water,flying,")
	want := []string{"flying", "water", "flying"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if empty := ParseTags(""); empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", empty)
	}
}
