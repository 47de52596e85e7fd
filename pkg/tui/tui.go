package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/reverie/pkg/dreams"
)

type view int

const (
	viewDreams view = iota
	viewReport
	viewCharts
	viewCreate
)

// Form fields of the new dream form, in input order
const (
	fieldTitle = iota
	fieldDescription
	fieldEmotion
	fieldTags
	fieldQuality
	fieldLucid
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Emotion", "Tags", "Sleep quality", "Lucid"}

type model struct {
	journal   *dreams.Journal
	storeName string

	all       []dreams.Dream
	listed    []dreams.Dream // all, or the current search results
	cursor    int
	view      view
	lastView  view
	width     int
	height    int
	err       error
	status    string
	statusBad bool
	quitting  bool

	searching   bool
	searchQuery string
	searchInput textinput.Model

	form      [fieldCount]textinput.Model
	formStep  int
	formError string

	reportText string
	report     viewport.Model

	charts chartsMsg

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(j *dreams.Journal, storeName string) model {
	search := textinput.New()
	search.Placeholder = "Search titles, descriptions and tags"
	search.CharLimit = 256

	var form [fieldCount]textinput.Model
	placeholders := [fieldCount]string{
		"What was the dream called?",
		"What happened?",
		strings.Join(dreams.Emotions, ", "),
		"Comma-separated, e.g. flying, water",
		fmt.Sprintf("%d-%d (default %d)", dreams.MinSleepQuality, dreams.MaxSleepQuality, dreams.DefaultSleepQuality),
		"y/n (default n)",
	}
	for i := range form {
		form[i] = textinput.New()
		form[i].Placeholder = placeholders[i]
		form[i].CharLimit = 512
	}
	form[fieldDescription].CharLimit = 4096

	return model{
		journal:     j,
		storeName:   storeName,
		all:         []dreams.Dream{},
		listed:      []dreams.Dream{},
		searchInput: search,
		form:        form,
		report:      viewport.New(0, 0),
	}
}

// Execute commands concurrently with no ordering guarantees during initialization
func (m model) Init() tea.Cmd {
	return tea.Batch(
		refreshAll(m.journal),
		tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		}),
	)
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.report.Width = max(msg.Width-4, 0)
		m.report.Height = max(msg.Height-6, 0)
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case dreamsLoadedMsg:
		m.all = msg
		if m.searchQuery == "" {
			m.listed = m.all
		}
		m.clampCursor()
		return m, nil

	case searchResultsMsg:
		m.searchQuery = msg.query
		m.listed = msg.results
		m.cursor = 0
		m.status = fmt.Sprintf("%d dream(s) match %q", len(msg.results), msg.query)
		m.statusBad = false
		return m, nil

	case reportMsg:
		m.reportText = string(msg)
		m.report.SetContent(m.reportText)
		return m, nil

	case chartsMsg:
		m.charts = msg
		return m, nil

	case dreamCreatedMsg:
		return m.handleCreated(msg)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.view == viewCreate {
			return m.updateForm(msg)
		}
		return m.updateNavigation(msg)

	case time.Time:
		// Update marquee animation every x ticks (adjust for speed)
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		})
	}

	return m, nil
}

func (m model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		// Exit alt screen before quitting so the goodbye message displays
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

	case "tab":
		m.view = (m.view + 1) % viewCreate
		return m, nil

	case "d":
		m.view = viewDreams
		return m, nil

	case "r":
		m.view = viewReport
		return m, buildReport(m.journal)

	case "c":
		m.view = viewCharts
		return m, buildCharts(m.journal)

	case "/":
		m.view = viewDreams
		m.searching = true
		m.searchInput.Reset()
		m.searchInput.Focus()
		return m, textinput.Blink

	case "n":
		m.lastView = m.view
		m.view = viewCreate
		m.resetForm()
		return m, textinput.Blink

	case "esc":
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.listed = m.all
			m.cursor = 0
			m.status = ""
		}
		m.view = viewDreams
		return m, nil
	}

	switch m.view {
	case viewDreams:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.listed)-1 {
				m.cursor++
			}
		}
	case viewReport:
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		query := m.searchInput.Value()
		if strings.TrimSpace(query) == "" {
			m.searchQuery = ""
			m.listed = m.all
			m.status = ""
			return m, nil
		}
		return m, searchDreams(m.journal, query)

	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.view = m.lastView
		m.resetForm()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.form[m.formStep].Value())
		switch m.formStep {
		case fieldTitle:
			if value == "" {
				m.formError = "Title cannot be empty"
				return m, nil
			}
		case fieldDescription:
			if value == "" {
				m.formError = "Description cannot be empty"
				return m, nil
			}
		case fieldQuality:
			if _, err := parseQuality(value); err != nil {
				m.formError = err.Error()
				return m, nil
			}
		}
		m.formError = ""

		if m.formStep < fieldLucid {
			m.form[m.formStep].Blur()
			m.formStep++
			m.form[m.formStep].Focus()
			return m, textinput.Blink
		}

		in, err := m.formInput()
		if err != nil {
			m.formError = err.Error()
			return m, nil
		}
		return m, createDream(m.journal, in)
	}

	var cmd tea.Cmd
	m.form[m.formStep], cmd = m.form[m.formStep].Update(msg)
	return m, cmd
}

func (m model) handleCreated(msg dreamCreatedMsg) (tea.Model, tea.Cmd) {
	var pe *dreams.PersistenceError
	switch {
	case dreams.IsValidation(msg.err):
		m.formError = msg.err.Error()
		return m, nil
	case errors.As(msg.err, &pe):
		m.status = fmt.Sprintf("Dream %d kept in memory only: %v", msg.result.Dream.ID, pe.Err)
		m.statusBad = true
	case msg.err != nil:
		m.formError = msg.err.Error()
		return m, nil
	default:
		m.status = fmt.Sprintf("Dream %d saved (%s)", msg.result.Dream.ID, msg.result.Dream.Sentiment)
		m.statusBad = false
	}

	m.view = viewDreams
	m.resetForm()
	m.searchQuery = ""
	m.cursor = len(m.all)
	if msg.result.Mutated {
		return m, refreshAll(m.journal)
	}
	return m, nil
}

func (m *model) resetForm() {
	for i := range m.form {
		m.form[i].Reset()
		m.form[i].Blur()
	}
	m.formStep = fieldTitle
	m.formError = ""
	m.form[fieldTitle].Focus()
}

func (m *model) clampCursor() {
	if m.cursor > len(m.listed)-1 {
		m.cursor = len(m.listed) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// formInput converts the form values into a dreams.Input
func (m model) formInput() (dreams.Input, error) {
	quality, err := parseQuality(m.form[fieldQuality].Value())
	if err != nil {
		return dreams.Input{}, err
	}
	lucid, err := parseYesNo(m.form[fieldLucid].Value())
	if err != nil {
		return dreams.Input{}, err
	}
	return dreams.Input{
		Title:        m.form[fieldTitle].Value(),
		Description:  m.form[fieldDescription].Value(),
		Emotion:      m.form[fieldEmotion].Value(),
		Tags:         m.form[fieldTags].Value(),
		SleepQuality: quality,
		Lucid:        lucid,
	}, nil
}

func parseQuality(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return dreams.DefaultSleepQuality, nil
	}
	q, err := strconv.Atoi(s)
	if err != nil || q < dreams.MinSleepQuality || q > dreams.MaxSleepQuality {
		return 0, fmt.Errorf("sleep quality must be a number from %d to %d", dreams.MinSleepQuality, dreams.MaxSleepQuality)
	}
	return q, nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "n", "no":
		return false, nil
	case "y", "yes":
		return true, nil
	default:
		return false, errors.New("answer y or n")
	}
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Waking up... Sweet dreams.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleText := "Reverie - dream journal"
	titleBar := titleStyle.Width(m.width).Render(titleText)

	var body string
	switch m.view {
	case viewReport:
		body = m.viewReport()
	case viewCharts:
		body = m.viewCharts()
	case viewCreate:
		body = m.viewForm()
	default:
		body = m.viewDreams()
	}

	statusLine := ""
	if m.status != "" {
		status := 1
		if m.statusBad {
			status = 2
		}
		statusLine = "\n" + TextStatusColorize(m.status, status)
	}

	footerText := "\n↑/↓ navigate • / search • n new dream • d dreams • r report • c charts • tab switch • esc back • q quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + body + statusLine + footerBar
}

func (m model) viewDreams() string {
	bordersAndPaddingWidth := 4
	leftWidth := m.width * 2 / 5
	rightWidth := m.width - leftWidth
	panelHeight := max(m.height-6, 0)

	var left strings.Builder
	header := "  Dreams"
	if m.searchQuery != "" {
		header = fmt.Sprintf("  Search: %s", m.searchQuery)
	}
	left.WriteString(subtitleStyle.Width(max(leftWidth-bordersAndPaddingWidth, 0)).Render(header))
	left.WriteString("\n\n")

	if m.searching {
		left.WriteString(m.searchInput.View() + "\n\n")
	}

	if len(m.listed) == 0 {
		if m.searchQuery != "" {
			left.WriteString("  No dreams found.\n")
		} else {
			left.WriteString("  No dreams yet. Press 'n' to record one.\n")
		}
	} else {
		for i, d := range m.listed {
			pointer := generateLinePointer(i == m.cursor, 2)
			label := fmt.Sprintf("%s  %s", d.Day(), d.Title)
			availableWidth := leftWidth - len(pointer) - bordersAndPaddingWidth - 1
			if i == m.cursor {
				label = marqueeText(label, m.marqueeOffset, availableWidth)
				left.WriteString(pointer + selectedStyle.Render(label) + "\n")
			} else {
				left.WriteString(pointer + inactiveStyle.Render(truncate(label, availableWidth)) + "\n")
			}
		}
	}

	storeStatus := 0
	if m.storeName != "" {
		storeStatus = 1
	}
	fallbackStatus := 1
	if m.journal.FallbackCount() > 0 {
		fallbackStatus = 2
	}
	left.WriteString(fmt.Sprintf("\nStore: %v\nDreams: %v\nSentiment fallbacks: %v\n",
		TextStatusColorize(m.storeName, storeStatus),
		TextStatusColorize(strconv.Itoa(len(m.all)), 1),
		TextStatusColorize(strconv.Itoa(m.journal.FallbackCount()), fallbackStatus)))

	leftPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(panelHeight).
		Render(left.String())

	var right strings.Builder
	right.WriteString(subtitleStyle.Render("Dream"))
	right.WriteString("\n\n")
	if m.cursor < len(m.listed) {
		right.WriteString(renderDream(m.listed[m.cursor], max(rightWidth-bordersAndPaddingWidth, 10)))
	} else {
		right.WriteString("Select a dream to view details.")
	}
	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(panelHeight).
		Render(right.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}

func renderDream(d dreams.Dream, width int) string {
	field := func(name, value string) string {
		return elemTitleHeaderStyle.Render(name+": ") + textStyle.Render(value) + "\n"
	}
	lucid := "No"
	if d.Lucid {
		lucid = "Yes"
	}
	tags := "-"
	if len(d.Tags) > 0 {
		tags = strings.Join(d.Tags, ", ")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(
		elemTitleHeaderStyle.Render("Title: ")+textStyle.Render(d.Title)) + "\n\n")
	b.WriteString(field("Date", d.Day()))
	b.WriteString(field("Emotion", d.EmotionLabel()))
	b.WriteString(field("Lucid", lucid))
	b.WriteString(field("Sleep Quality", fmt.Sprintf("%d/10", d.SleepQuality)))
	b.WriteString(field("Sentiment", string(d.Sentiment)))
	b.WriteString(elemTitleHeaderStyle.Render("Tags: ") + multiElemsTitleStyle.Render(tags) + "\n\n")
	b.WriteString(textStyle.Width(width).Render(d.Description))
	return b.String()
}

func (m model) viewReport() string {
	if m.reportText == "" {
		return "  Building report..."
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(m.report.View())
}

func (m model) viewCharts() string {
	return lipgloss.NewStyle().Padding(0, 2).Render(renderCharts(m.charts, max(m.width-8, 10)))
}

// Charts renders the chart panels for the journal without starting a program.
func Charts(j *dreams.Journal, width int) string {
	return renderCharts(buildCharts(j)().(chartsMsg), width)
}

func renderCharts(c chartsMsg, width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Sleep Quality Over Time") + "\n")
	b.WriteString(renderSparkline(c.sleep, width) + "\n")
	if len(c.sleep) > 0 {
		b.WriteString(multiElemsTitleStyle.Render(fmt.Sprintf("Average: %.1f", c.average)) + "\n")
	}

	b.WriteString("\n" + subtitleStyle.Render("Dream Emotions Over Time") + "\n")
	b.WriteString(renderTimeline(c.timeline, width) + "\n")

	b.WriteString("\n" + subtitleStyle.Render("Emotions") + "\n")
	b.WriteString(renderBars(c.emotions, 12))

	b.WriteString("\n" + subtitleStyle.Render("Dream Themes") + "\n")
	b.WriteString(renderBars(c.words, 12))

	return b.String()
}

func (m model) viewForm() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Record New Dream") + "\n\n")
	for i := range m.form {
		label := fmt.Sprintf("%-14s", fieldLabels[i]+":")
		if i == m.formStep {
			label = selectedStyle.Render(label)
		} else {
			label = elemTitleHeaderStyle.Render(label)
		}
		b.WriteString(label + " " + m.form[i].View() + "\n")
	}
	b.WriteString("\n(enter for next field / submit, esc to cancel)")
	if m.formError != "" {
		b.WriteString("\n\n" + textRedStyle.Render(m.formError) + "\n")
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

// Create and start the Bubble Tea TUI
func ShowTUI(j *dreams.Journal, storeName string) error {
	p := tea.NewProgram(initModel(j, storeName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
