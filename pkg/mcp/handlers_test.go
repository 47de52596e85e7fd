package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unowned-ai/reverie/pkg/analysis"
	"github.com/unowned-ai/reverie/pkg/dreams"
)

type memStore struct {
	saved   []dreams.Dream
	saveErr error
}

func (s *memStore) Load(ctx context.Context) ([]dreams.Dream, error) {
	return append([]dreams.Dream{}, s.saved...), nil
}

func (s *memStore) Save(ctx context.Context, ds []dreams.Dream) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append([]dreams.Dream{}, ds...)
	return nil
}

func newTestJournal(t *testing.T, store dreams.Store) *dreams.Journal {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 6, 1, 23, 30, 0, 0, time.Local) }
	j, err := dreams.Open(context.Background(), store, dreams.WithClock(clock))
	require.NoError(t, err)
	return j
}

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", res.Content[0])
		return ""
	}
}

func TestPing(t *testing.T) {
	res := callTool(t, pingHandler, nil)
	assert.False(t, res.IsError)
	assert.Equal(t, "pong_reverie", resultText(t, res))
}

func TestCreateDream(t *testing.T) {
	store := &memStore{}
	j := newTestJournal(t, store)
	h := createDreamHandler(j, zap.NewNop())

	res := callTool(t, h, map[string]any{
		"title":         "Ocean",
		"description":   "A calm and beautiful ocean.",
		"emotion":       "Peaceful",
		"lucid":         true,
		"tags":          "water, ocean",
		"sleep_quality": float64(12),
	})
	require.False(t, res.IsError, resultText(t, res))

	var d dreams.Dream
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &d))
	assert.Equal(t, 1, d.ID)
	assert.Equal(t, "2024-06-01 23:30:00", d.Date)
	assert.Equal(t, []string{"water", "ocean"}, d.Tags)
	assert.Equal(t, dreams.MaxSleepQuality, d.SleepQuality)
	assert.True(t, d.Lucid)
	assert.Len(t, store.saved, 1)
}

func TestCreateDreamDefaultsSleepQuality(t *testing.T) {
	j := newTestJournal(t, &memStore{})
	res := callTool(t, createDreamHandler(j, nil), map[string]any{
		"title":       "Short",
		"description": "Brief.",
	})
	require.False(t, res.IsError)

	var d dreams.Dream
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &d))
	assert.Equal(t, dreams.DefaultSleepQuality, d.SleepQuality)
}

func TestCreateDreamValidation(t *testing.T) {
	j := newTestJournal(t, &memStore{})
	res := callTool(t, createDreamHandler(j, zap.NewNop()), map[string]any{
		"title":       "   ",
		"description": "something",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "title")
	assert.Zero(t, j.Len())
}

func TestCreateDreamPersistenceFailure(t *testing.T) {
	j := newTestJournal(t, &memStore{saveErr: errors.New("read-only file system")})
	res := callTool(t, createDreamHandler(j, zap.NewNop()), map[string]any{
		"title":       "Kept",
		"description": "Only in memory.",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "recorded in memory")
	assert.Equal(t, 1, j.Len())
}

func seededJournal(t *testing.T) *dreams.Journal {
	t.Helper()
	j := newTestJournal(t, &memStore{})
	ctx := context.Background()
	inputs := []dreams.Input{
		{Title: "Flying high", Description: "I was flying, it was wonderful.", Emotion: "Excited", Lucid: true, Tags: "flying", SleepQuality: 9},
		{Title: "Teeth", Description: "My teeth fell out, a terrible nightmare.", Emotion: "Anxious", Tags: "teeth", SleepQuality: 3},
	}
	for _, in := range inputs {
		_, err := j.Create(ctx, in)
		require.NoError(t, err)
	}
	return j
}

func TestListAndSearchDreams(t *testing.T) {
	j := seededJournal(t)

	var all []dreams.Dream
	require.NoError(t, json.Unmarshal([]byte(resultText(t, callTool(t, listDreamsHandler(j), nil))), &all))
	assert.Len(t, all, 2)

	var found []dreams.Dream
	res := callTool(t, searchDreamsHandler(j), map[string]any{"query": "TEETH"})
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Teeth", found[0].Title)

	res = callTool(t, searchDreamsHandler(j), map[string]any{"query": " "})
	assert.True(t, res.IsError)
}

func TestListDreamsEmpty(t *testing.T) {
	j := newTestJournal(t, &memStore{})
	assert.Equal(t, "[]", resultText(t, callTool(t, listDreamsHandler(j), nil)))
}

func TestGetReportAndInsights(t *testing.T) {
	j := seededJournal(t)

	report := resultText(t, callTool(t, getReportHandler(j), nil))
	assert.Contains(t, report, analysis.ReportTitle)
	assert.Contains(t, report, "• Total Dreams Recorded: 2")
	assert.Contains(t, report, "• Lucid Dreams: 1 (50.0%)")

	var insights []string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, callTool(t, getInsightsHandler(j), nil))), &insights))
	assert.Contains(t, insights, analysis.InsightHighLucidity)

	var stats analysis.Stats
	require.NoError(t, json.Unmarshal([]byte(resultText(t, callTool(t, getStatsHandler(j), nil))), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.InDelta(t, 6.0, stats.AverageSleepQuality, 1e-9)
}

func TestGetExport(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC) }

	empty := newTestJournal(t, &memStore{})
	res := callTool(t, getExportHandler(empty, now), nil)
	assert.True(t, res.IsError)

	j := seededJournal(t)
	res = callTool(t, getExportHandler(j, now), nil)
	require.False(t, res.IsError)

	var out ExportResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "dream_analysis_20240602_080000.txt", out.FileName)
	assert.Contains(t, out.Content, "Generated on: 2024-06-02 08:00:00")
}

func TestNewDreamsMCPServer(t *testing.T) {
	closed := false
	srv := NewDreamsMCPServer(seededJournal(t), nil, func() error { closed = true; return nil })
	require.NotNil(t, srv.MCPRawServer())
	assert.NotEqual(t, [16]byte{}, [16]byte(srv.SessionID))
	assert.Equal(t, 2, srv.Journal().Len())
	require.NoError(t, srv.Close())
	assert.True(t, closed)
}
