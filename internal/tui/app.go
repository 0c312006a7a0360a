// Package tui provides an interactive terminal dashboard for a timing run.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/Geun-Oh/timeln/internal/annotate"
	"github.com/Geun-Oh/timeln/internal/monitor"
	"github.com/Geun-Oh/timeln/internal/pipeline"
	"github.com/Geun-Oh/timeln/internal/timing"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#353533"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6600")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// --- Keys ---

type keyMap struct {
	Search key.Binding
	Pause  key.Binding
	Up     key.Binding
	Down   key.Binding
	Bottom key.Binding
	Top    key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	Bottom: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "bottom")),
	Top:    key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "top")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Pause, k.Up, k.Down, k.Bottom, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Top}}
}

// --- Messages ---

// RecordMsg announces a timed line.
type RecordMsg timing.Record

// SpikeMsg notifies the dashboard that the current second is a burst.
type SpikeMsg struct {
	Rate float64
}

// SlowMsg notifies the dashboard that a line's delta reached the slow threshold.
type SlowMsg struct {
	Seq   uint64
	Delta time.Duration
}

// TickMsg triggers periodic UI updates.
type TickMsg time.Time

// DoneMsg signals that processing stopped.
type DoneMsg struct {
	Reason pipeline.Reason
	Err    error
}

// --- Model ---

// Model is the bubbletea model for the dashboard.
type Model struct {
	width     int
	height    int
	scrollPos int // 0 = bottom (auto-scroll), >0 = scrolled up
	paused    bool
	frozen    []timing.Record // view while paused

	searching    bool
	searchQuery  string
	searchResult []int // indices into the current records

	help      help.Model
	sink      *Sink
	tally     *monitor.Tally
	tracker   *timing.Tracker
	annotator *annotate.Annotator
	source    string

	lastAlert  string
	alertFlash int // ticks left to show lastAlert

	done     bool
	doneMsg  DoneMsg
	finished time.Duration
}

// NewModel creates a dashboard model over the run's shared state.
func NewModel(s *Sink, tally *monitor.Tally, tracker *timing.Tracker, a *annotate.Annotator, sourceName string) Model {
	return Model{
		help:      help.New(),
		sink:      s,
		tally:     tally,
		tracker:   tracker,
		annotator: a,
		source:    sourceName,
	}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.WindowSize())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RecordMsg:
		// Keep a scrolled-up view anchored while new lines arrive.
		if m.scrollPos > 0 && !m.paused {
			m.scrollPos++
		}
		return m, nil

	case SpikeMsg:
		m.lastAlert = fmt.Sprintf("📈 SPIKE: %.0f lines/s", msg.Rate)
		m.alertFlash = 8
		return m, nil

	case SlowMsg:
		m.lastAlert = fmt.Sprintf("⚠ SLOW: line %d took %s", msg.Seq, m.annotator.Format().Duration(msg.Delta))
		m.alertFlash = 10
		return m, nil

	case TickMsg:
		if m.alertFlash > 0 {
			m.alertFlash--
		}
		return m, tickCmd()

	case DoneMsg:
		m.done = true
		m.doneMsg = msg
		m.finished = m.tracker.Elapsed()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchQuery = ""
			m.searchResult = nil
			return m, nil
		case "enter":
			m.searching = false
			m.performSearch()
			return m, nil
		case "backspace":
			if len(m.searchQuery) > 0 {
				m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
			}
			return m, nil
		default:
			if len(msg.String()) == 1 {
				m.searchQuery += msg.String()
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Pause):
		m.paused = !m.paused
		m.frozen = nil
		if m.paused {
			m.frozen = m.sink.Ring().Snapshot()
		}
		return m, nil
	case key.Matches(msg, keys.Search):
		m.searching = true
		m.searchQuery = ""
		m.searchResult = nil
		return m, nil
	case key.Matches(msg, keys.Up):
		if m.scrollPos < len(m.records())-1 {
			m.scrollPos++
		}
		return m, nil
	case key.Matches(msg, keys.Down):
		if m.scrollPos > 0 {
			m.scrollPos--
		}
		return m, nil
	case key.Matches(msg, keys.Bottom):
		m.scrollPos = 0
		return m, nil
	case key.Matches(msg, keys.Top):
		m.scrollPos = len(m.records()) - 1
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sb strings.Builder

	title := titleStyle.Render(fmt.Sprintf(" timeln · %s ", m.source))
	statusText := statusBarStyle.Render(fmt.Sprintf(" %s  %s ", m.state(), m.format(m.elapsed())))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(statusText)
	if gap < 0 {
		gap = 0
	}
	sb.WriteString(title + statusBarStyle.Render(strings.Repeat(" ", gap)) + statusText)
	sb.WriteString("\n")

	headerLines := 1
	if m.alertFlash > 0 && m.lastAlert != "" {
		sb.WriteString(highlightStyle.Render(m.lastAlert))
		sb.WriteString("\n")
		headerLines++
	}
	if m.done && m.doneMsg.Err != nil {
		sb.WriteString(errorStyle.Render(" " + m.doneMsg.Err.Error()))
		sb.WriteString("\n")
		headerLines++
	}
	if m.searching {
		sb.WriteString(fmt.Sprintf(" 🔍 Search: %s█", m.searchQuery))
		sb.WriteString("\n")
		headerLines++
	}

	footerLines := 2
	viewportHeight := m.height - headerLines - footerLines
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	visible := m.visibleLines(viewportHeight)
	for _, line := range visible {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	for i := len(visible); i < viewportHeight; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(statusBarStyle.Render(padRight(m.statsLine(), m.width)))
	sb.WriteString("\n")

	helpText := " " + m.help.ShortHelpView(keys.ShortHelp())
	if m.paused {
		helpText += "  (paused)"
	}
	sb.WriteString(helpStyle.Render(helpText))

	return sb.String()
}

// --- Helpers ---

func (m Model) state() string {
	switch {
	case m.done && m.doneMsg.Err != nil:
		return "✖ FAILED"
	case m.done:
		return "✔ DONE (" + m.doneMsg.Reason.String() + ")"
	case m.paused:
		return "⏸ PAUSED"
	default:
		return "▶ RUNNING"
	}
}

func (m Model) elapsed() time.Duration {
	if m.done {
		return m.finished
	}
	return m.tracker.Elapsed()
}

func (m Model) format(d time.Duration) string {
	return m.annotator.Format().Duration(d)
}

func (m Model) statsLine() string {
	c := m.tally.LastKnown()
	slow := m.sink.Slow()
	rate := m.sink.Rate().PerSecond(m.tracker.Now())

	line := fmt.Sprintf(" Lines: %s │ Matches: %s │ Δ last: %s",
		humanize.Comma(int64(c.Lines)), humanize.Comma(int64(c.Matches)), m.format(slow.Last()))
	if seq, worst := slow.Worst(); seq > 0 {
		line += fmt.Sprintf(" max: %s (#%d)", m.format(worst), seq)
	}
	line += fmt.Sprintf(" │ Rate: %s %.0f/s", renderRateBar(rate, 10), rate)
	if slow.Threshold() > 0 {
		line += fmt.Sprintf(" │ Slow: %d", slow.Flagged())
	}
	if dropped := m.sink.Ring().Dropped(); dropped > 0 {
		line += fmt.Sprintf(" │ Dropped: %s", humanize.Comma(int64(dropped)))
	}
	if m.scrollPos > 0 {
		line += fmt.Sprintf(" │ ↑ %d", m.scrollPos)
	}
	return line
}

// records returns what the viewport shows: the frozen copy while paused, else the ring.
func (m Model) records() []timing.Record {
	if m.paused {
		return m.frozen
	}
	return m.sink.Ring().Snapshot()
}

func (m Model) visibleLines(height int) []string {
	recs := m.records()
	if len(recs) == 0 {
		return nil
	}

	end := len(recs) - m.scrollPos
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, m.formatRecord(recs[i]))
	}
	return out
}

func (m Model) formatRecord(r timing.Record) string {
	text, match := truncate(r.Text, r.Match, m.width-32)
	var line string
	if m.searchQuery != "" && !m.searching && strings.Contains(text, m.searchQuery) {
		// Search marks go on the raw text so the colored prefix is left alone.
		line = m.annotator.Prefix(r.Elapsed, r.Delta) + " " +
			strings.ReplaceAll(text, m.searchQuery, m.markSearch(m.searchQuery))
	} else {
		line = m.annotator.Annotate(text, match, r.Elapsed, r.Delta)
	}
	if t := m.sink.Slow().Threshold(); t > 0 && r.Delta >= t {
		return warnStyle.Render("! ") + line
	}
	return "  " + line
}

func (m *Model) performSearch() {
	m.searchResult = nil
	if m.searchQuery == "" {
		return
	}
	recs := m.records()
	for i, r := range recs {
		if strings.Contains(r.Text, m.searchQuery) {
			m.searchResult = append(m.searchResult, i)
		}
	}
	// Scroll to the newest match.
	if len(m.searchResult) > 0 {
		lastMatch := m.searchResult[len(m.searchResult)-1]
		m.scrollPos = len(recs) - lastMatch - 1
	}
}

func renderRateBar(rate float64, width int) string {
	maxRate := 200.0 // 200 lines/s = full bar
	filled := int(rate / maxRate * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) markSearch(s string) string {
	if p := m.annotator.Palette(); p.Enabled() {
		return p.Match(s)
	}
	return highlightStyle.Render(s)
}

// truncate shortens s to maxWidth display cells. A match span cut by the truncation is dropped.
func truncate(s string, match []int, maxWidth int) (string, []int) {
	if maxWidth <= 0 || ansi.StringWidth(s) <= maxWidth {
		return s, match
	}
	kept := ansi.Truncate(s, maxWidth-1, "")
	if len(match) == 2 && match[1] > len(kept) {
		match = nil
	}
	return kept + "…", match
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
