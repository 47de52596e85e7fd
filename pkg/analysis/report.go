package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ReportTitle       = "DREAM JOURNAL ANALYSIS"
	ExportTitle       = "DREAM JOURNAL ANALYSIS EXPORT"
	EmptyReport       = "No dreams recorded yet. Start by adding some dreams!"
	exportStampLayout = "2006-01-02 15:04:05"
	exportFileLayout  = "20060102_150405"
)

// ErrNothingToExport is returned by Export for an empty journal.
var ErrNothingToExport = errors.New("no dreams to export")

// Report renders stats and insights as the plain-text analysis report.
func Report(stats Stats, insights []string) string {
	if stats.Empty {
		return EmptyReport
	}

	var b strings.Builder

	b.WriteString(ReportTitle + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("BASIC STATISTICS:\n")
	fmt.Fprintf(&b, "• Total Dreams Recorded: %d\n", stats.Total)
	fmt.Fprintf(&b, "• Lucid Dreams: %d (%.1f%%)\n", stats.LucidCount, stats.LucidPercentage)
	fmt.Fprintf(&b, "• Average Sleep Quality: %.1f/10\n\n", stats.AverageSleepQuality)

	b.WriteString("EMOTIONAL PATTERNS:\n")
	fmt.Fprintf(&b, "• Most Common Emotion: %s (%d times)\n", stats.MostCommonEmotion.Name, stats.MostCommonEmotion.Count)
	b.WriteString("• Emotion Distribution:\n")
	b.WriteString(formatCounts(stats.Emotions, 2, "  None") + "\n\n")

	b.WriteString("SENTIMENT ANALYSIS:\n")
	fmt.Fprintf(&b, "• Positive Dreams: %d\n", stats.Sentiment.Positive)
	fmt.Fprintf(&b, "• Negative Dreams: %d\n", stats.Sentiment.Negative)
	fmt.Fprintf(&b, "• Neutral Dreams: %d\n\n", stats.Sentiment.Neutral)

	b.WriteString("COMMON THEMES (Tags):\n")
	b.WriteString(formatCounts(stats.TopTags, 2, "  No tags found") + "\n\n")

	b.WriteString("FREQUENT WORDS IN DREAMS:\n")
	b.WriteString(formatCounts(stats.TopWords, 2, "  None") + "\n\n")

	b.WriteString("RECENT DREAM TITLES:\n")
	for _, d := range stats.Recent {
		title := d.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, "• %s (%s)\n", title, d.Day())
	}
	b.WriteString("\n")

	b.WriteString("INSIGHTS:\n")
	b.WriteString(formatInsights(insights))
	b.WriteString("\n")

	return b.String()
}

// Export prefixes the report with the export header stamped at now.
func Export(stats Stats, insights []string, now time.Time) (string, error) {
	if stats.Empty {
		return "", ErrNothingToExport
	}

	var b strings.Builder
	b.WriteString(ExportTitle + "\n")
	fmt.Fprintf(&b, "Generated on: %s\n", now.Format(exportStampLayout))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(Report(stats, insights))
	return b.String(), nil
}

// ExportFileName is the suggested file name for an export written at now.
func ExportFileName(now time.Time) string {
	return "dream_analysis_" + now.Format(exportFileLayout) + ".txt"
}

func formatCounts(counts []Count, indent int, empty string) string {
	if len(counts) == 0 {
		return empty
	}
	pad := strings.Repeat("  ", indent)
	lines := make([]string, len(counts))
	for i, c := range counts {
		lines[i] = fmt.Sprintf("%s• %s: %d", pad, c.Name, c.Count)
	}
	return strings.Join(lines, "\n")
}

func formatInsights(insights []string) string {
	if isPlaceholder(insights) {
		return insights[0]
	}
	if len(insights) == 0 {
		return InsightKeepRecording
	}
	lines := make([]string, len(insights))
	for i, msg := range insights {
		lines[i] = "• " + msg
	}
	return strings.Join(lines, "\n")
}
