package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/reverie/pkg/analysis"
	"github.com/unowned-ai/reverie/pkg/dreams"
)

// chartWords is how many words the charts view ranks.
const chartWords = 10

type dreamsLoadedMsg []dreams.Dream

type searchResultsMsg struct {
	query   string
	results []dreams.Dream
}

type dreamCreatedMsg struct {
	result dreams.CreateResult
	err    error
}

type reportMsg string

type chartsMsg struct {
	sleep    []float64
	average  float64
	timeline []analysis.EmotionPoint
	emotions []analysis.Count
	words    []analysis.Count
}

// List every dream in the journal
func listDreams(j *dreams.Journal) tea.Cmd {
	return func() tea.Msg {
		return dreamsLoadedMsg(j.All())
	}
}

// Run a keyword search over the journal
func searchDreams(j *dreams.Journal, query string) tea.Cmd {
	return func() tea.Msg {
		return searchResultsMsg{query: query, results: j.Search(query)}
	}
}

// Create a dream from the form values and save the journal
func createDream(j *dreams.Journal, in dreams.Input) tea.Cmd {
	return func() tea.Msg {
		res, err := j.Create(context.Background(), in)
		return dreamCreatedMsg{result: res, err: err}
	}
}

// Build the analysis report text
func buildReport(j *dreams.Journal) tea.Cmd {
	return func() tea.Msg {
		stats := analysis.Aggregate(j.All())
		return reportMsg(analysis.Report(stats, analysis.Insights(stats)))
	}
}

// Build the chart series
func buildCharts(j *dreams.Journal) tea.Cmd {
	return func() tea.Msg {
		all := j.All()
		sleep, avg := analysis.SleepQualitySeries(all)
		timeline := analysis.EmotionTimeline(all)
		return chartsMsg{
			sleep:    sleep,
			average:  avg,
			timeline: timeline,
			emotions: analysis.EmotionCounts(timeline),
			words:    analysis.WordCloud(all, chartWords),
		}
	}
}

// Reload everything derived from the journal after a mutation
func refreshAll(j *dreams.Journal) tea.Cmd {
	return tea.Batch(listDreams(j), buildReport(j), buildCharts(j))
}
