// Package ui renders driver progress as a terminal view.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"jvmlower/internal/driver"
)

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	items   []unitItem
	index   map[string]int
	failed  int
	cached  int
	width   int
	done    bool
}

type unitItem struct {
	path  string
	state unitState
	final bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model listing units and their state.
// The model quits when events is closed.
func NewProgressModel(title string, units []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]unitItem, 0, len(units))
	index := make(map[string]int, len(units))
	for i, unit := range units {
		items = append(items, unitItem{path: unit, state: queuedState})
		index[unit] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		cmd = tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		cmd = tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case progress.FrameMsg:
		var updated tea.Model
		updated, cmd = m.prog.Update(msg)
		m.prog = updated.(progress.Model)
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
	}
	return m, cmd
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	var notes []string
	if m.cached > 0 {
		notes = append(notes, fmt.Sprintf("%d cached", m.cached))
	}
	if m.failed > 0 {
		notes = append(notes, fmt.Sprintf("%d failed", m.failed))
	}
	if len(notes) > 0 {
		header += " (" + strings.Join(notes, ", ") + ")"
	}
	lead := m.spinner.View()
	if m.done {
		lead = "done:"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(lead + " " + header))
	b.WriteString("\n\n")
	const labelWidth = 10
	pathWidth := max(m.width-labelWidth-4, 20)
	for _, item := range m.items {
		label := item.state.style.Render(fmt.Sprintf("%*s", labelWidth, item.state.label))
		fmt.Fprintf(&b, "  %s %s\n", label, truncate(item.path, pathWidth))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok || m.items[idx].final {
		return nil
	}
	item := &m.items[idx]
	if st, ok := stateFor(ev); ok {
		item.state = st
	}
	if ev.Terminal() {
		item.final = true
		switch {
		case ev.Status == driver.StatusError:
			m.failed++
		case ev.Stage == driver.StageCache:
			m.cached++
		}
	}
	return m.prog.SetPercent(m.fraction())
}

// fraction counts finished units as whole and the rest by the weight of
// the state they are in.
func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range m.items {
		if item.final {
			sum++
		} else {
			sum += item.state.weight
		}
	}
	return sum / float64(len(m.items))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// unitState is what the view shows for a unit.
type unitState struct {
	label  string
	style  lipgloss.Style
	weight float64
}

var queuedState = unitState{"queued", idleStyle, 0}

type stateKey struct {
	stage  driver.Stage
	status driver.Status
}

var states = map[stateKey]unitState{
	{driver.StageLoad, driver.StatusWorking}:  {"loading", busyStyle, 0.1},
	{driver.StageLoad, driver.StatusDone}:     {"loaded", busyStyle, 0.3},
	{driver.StageLower, driver.StatusWorking}: {"lowering", busyStyle, 0.6},
	{driver.StageLower, driver.StatusDone}:    {"done", okStyle, 1},
	{driver.StageCache, driver.StatusDone}:    {"cached", okStyle, 1},
}

func stateFor(ev driver.Event) (unitState, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return queuedState, true
	case driver.StatusError:
		return unitState{"error", errStyle, 1}, true
	}
	st, ok := states[stateKey{ev.Stage, ev.Status}]
	return st, ok
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// the width given to Truncate includes the tail
	return runewidth.Truncate(value, width, "...")
}
