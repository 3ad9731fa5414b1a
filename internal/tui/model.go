package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imkarma/gantt/internal/chart"
	"github.com/imkarma/gantt/internal/config"
	"github.com/imkarma/gantt/internal/drag"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/hierarchy"
	"github.com/imkarma/gantt/internal/palette"
	"github.com/imkarma/gantt/internal/store"
)

// screen is the active top-level view.
type screen int

const (
	screenChart screen = iota // timeline (main)
	screenLog                 // event log
)

// popupKind identifies which popup overlay is active.
type popupKind int

const (
	popupNone popupKind = iota
	popupProgress
	popupBaseline
)

// source tags every change made from the terminal chart in the event log.
const source = "tui"

// Model is the top-level bubbletea model.
type Model struct {
	store *store.Store
	cfg   *config.Config
	theme palette.Theme

	width  int
	height int

	screen screen
	popup  popupKind

	// Project data, reloaded from the store after every change.
	name      string
	tasks     []gantt.Task
	links     []gantt.Link
	collapsed *hierarchy.Collapsed

	// Derived chart and interaction state.
	opts   gantt.Options
	chart  *chart.Chart
	drag   *drag.Controller
	grid   grid
	cursor int // selected row

	textInput   textinput.Model
	logViewport viewport.Model

	statusMsg  string
	statusTime time.Time
	now        func() time.Time

	quitting bool
}

// New creates the terminal chart over s.
func New(s *store.Store, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	opts := cfg.Options()

	ti := textinput.New()
	ti.CharLimit = 5
	ti.Width = 10

	m := Model{
		store:       s,
		cfg:         cfg,
		theme:       cfg.Theme(),
		opts:        opts,
		collapsed:   hierarchy.NewCollapsed(),
		textInput:   ti,
		logViewport: viewport.New(80, 20),
		grid: grid{
			labelWidth: cfg.TUI.LabelWidth,
			pxPerCell:  cfg.TUI.PxPerCell,
		},
		now: time.Now,
	}
	m.drag = drag.New(drag.Config{AllowDrag: opts.AllowDrag, AllowResize: opts.AllowResize})
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadProject()
}

// --- Messages ---

type projectLoadedMsg struct {
	name      string
	tasks     []gantt.Task
	links     []gantt.Link
	collapsed []string
	err       error
}

type eventsLoadedMsg struct {
	events []store.Event
	err    error
}

// savedMsg reports a finished write. The project is reloaded afterwards
// so the chart always reflects what the store holds.
type savedMsg struct {
	status string
	err    error
}

// --- Commands ---

func (m Model) loadProject() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.ListTasks()
		if err != nil {
			return projectLoadedMsg{err: err}
		}
		links, err := m.store.ListLinks()
		if err != nil {
			return projectLoadedMsg{err: err}
		}
		collapsed, err := m.store.ListCollapsed()
		if err != nil {
			return projectLoadedMsg{err: err}
		}
		return projectLoadedMsg{
			name:      m.store.ProjectName(),
			tasks:     tasks,
			links:     links,
			collapsed: collapsed,
		}
	}
}

func (m Model) loadEvents() tea.Cmd {
	return func() tea.Msg {
		events, err := m.store.RecentEvents(200)
		return eventsLoadedMsg{events: events, err: err}
	}
}

func (m Model) saveDates(out drag.Outcome) tea.Cmd {
	return func() tea.Msg {
		err := m.store.UpdateDates(out.TaskID, out.Start, out.End, out.IsResize(), source)
		verb := "Moved"
		if out.IsResize() {
			verb = "Resized"
		}
		return savedMsg{status: verb + " " + out.TaskID + " to " + dateRange(out.Start, out.End), err: err}
	}
}

func (m Model) saveCollapsed(ev hierarchy.ToggleEvent) tea.Cmd {
	return func() tea.Msg {
		err := m.store.SetCollapsed(ev.TaskID, !ev.Expanded, source)
		verb := "Collapsed "
		if ev.Expanded {
			verb = "Expanded "
		}
		return savedMsg{status: verb + ev.TaskID, err: err}
	}
}

func (m Model) saveProgress(id string, progress float64) tea.Cmd {
	return func() tea.Msg {
		err := m.store.SetProgress(id, progress, source)
		return savedMsg{status: "Progress of " + id + " set to " + ftoa(progress) + "%", err: err}
	}
}

func (m Model) captureBaseline(ids ...string) tea.Cmd {
	return func() tea.Msg {
		n, err := m.store.CaptureBaseline(source, ids...)
		return savedMsg{status: "Captured baseline for " + itoa(n) + " task(s)", err: err}
	}
}

// --- State helpers ---

// rebuild recomputes the chart from the current project and settings and
// points the drag controller at the new coordinate engine.
func (m *Model) rebuild() {
	m.chart = chart.Build(m.tasks, m.links, m.opts, m.collapsed, m.now())
	m.drag.SetEngine(m.chart.Engine)
	m.clampCursor()
}

func (m *Model) setScale(s gantt.Scale) {
	if m.opts.Scale == s {
		return
	}
	m.opts.Scale = s
	m.grid.offsetPx = 0
	m.rebuild()
	m.setStatus("Scale: " + string(s))
}

func (m *Model) clampCursor() {
	if m.cursor >= m.chart.Rows {
		m.cursor = m.chart.Rows - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.visibleRowCount()
	if m.cursor < m.grid.topRow {
		m.grid.topRow = m.cursor
	}
	if rows > 0 && m.cursor >= m.grid.topRow+rows {
		m.grid.topRow = m.cursor - rows + 1
	}
	if m.grid.topRow < 0 {
		m.grid.topRow = 0
	}
}

// visibleRowCount is how many chart rows fit between header and footer.
func (m Model) visibleRowCount() int {
	if m.height <= 0 {
		return 0
	}
	return max((m.height-headerLines-footerLines)/linesPerRow, 1)
}

func (m Model) selected() (gantt.ComputedTask, bool) {
	return m.chart.RowTask(m.cursor)
}

// pan shifts the timeline horizontally by whole columns of the scale.
func (m *Model) pan(columns int) {
	step := m.chart.Engine.PixelsPerDay()
	switch m.opts.Scale {
	case gantt.ScaleWeek:
		step *= 7
	case gantt.ScaleMonth:
		step *= 30
	}
	limit := m.chart.Width() - float64(m.grid.cols(m.width))*m.grid.pxPerCell
	m.grid.offsetPx = clamp(m.grid.offsetPx+float64(columns)*step, 0, max(limit, 0))
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTime = m.now()
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
