package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/reverie/pkg/analysis"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	marqueeTickDuration = time.Duration(time.Second / 20)

	sparklineHeight = 5
	barWidth        = 30
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWhite))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	textRedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))

	elemTitleHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.
				Color(colorBlue))
	multiElemsTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorPurple))
	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGreen))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// emotionColors gives every emotion label a fixed dot color on the timeline.
var emotionColors = map[string]string{
	"Happy":     "#ffd700",
	"Scared":    "#ff0000",
	"Confused":  "#ffa500",
	"Excited":   "#00ff00",
	"Sad":       "#0000ff",
	"Anxious":   "#800080",
	"Peaceful":  "#add8e6",
	"Angry":     "#8b0000",
	"Curious":   "#008000",
	"Nostalgic": "#ffc0cb",
	"Unknown":   "#808080",
}

// Function to colorize text based on its status
// 0 (default) - unknown, 1 - green, 2 - red
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool, length int) string {
	if isPoint {
		return ">" + strings.Repeat(" ", length-1)
	}
	return strings.Repeat(" ", length)
}

// Create a padded version marquee text for scrolling
func marqueeText(text string, offset, availableWidth int) string {
	runes := []rune(text)
	if len(runes) <= availableWidth || availableWidth <= 0 {
		return text
	}
	padded := append(append(append([]rune{}, runes...), []rune("    ")...), runes...)
	start := offset % (len(runes) + 4)
	return string(padded[start : start+availableWidth])
}

// Shorten text to width runes with a ".." suffix
func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width <= 3 {
		return string(runes[:max(width, 0)])
	}
	return string(runes[:width-2]) + ".."
}

// Render a sleep-quality sparkline of the given width
func renderSparkline(data []float64, width int) string {
	if len(data) == 0 {
		return TextStatusColorize("no data", 0)
	}
	if width < 1 {
		width = 1
	}
	spark := sparkline.New(width, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}

// Render one labelled bar per count, scaled to the largest count
func renderBars(counts []analysis.Count, labelWidth int) string {
	if len(counts) == 0 {
		return TextStatusColorize("  None", 0)
	}
	peak := 0
	for _, c := range counts {
		peak = max(peak, c.Count)
	}
	bar := progress.New(
		progress.WithGradient(colorPurple, colorBlue),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)

	var b strings.Builder
	for _, c := range counts {
		label := fmt.Sprintf("%-*s", labelWidth, truncate(c.Name, labelWidth))
		b.WriteString(elemTitleHeaderStyle.Render(label) + " " +
			bar.ViewAs(float64(c.Count)/float64(peak)) + " " +
			textStyle.Render(fmt.Sprintf("%d", c.Count)) + "\n")
	}
	return b.String()
}

// Render the emotion timeline as one colored dot per dream
func renderTimeline(points []analysis.EmotionPoint, width int) string {
	if len(points) == 0 {
		return TextStatusColorize("no data", 0)
	}
	if width > 0 && len(points) > width {
		points = points[len(points)-width:]
	}
	var b strings.Builder
	for _, p := range points {
		color, ok := emotionColors[p.Emotion]
		if !ok {
			color = emotionColors["Unknown"]
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●"))
	}
	first, last := points[0].Day, points[len(points)-1].Day
	return b.String() + "\n" + multiElemsTitleStyle.Render(first+" → "+last)
}
