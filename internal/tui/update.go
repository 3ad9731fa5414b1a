package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imkarma/gantt/internal/calendar"
	"github.com/imkarma/gantt/internal/drag"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/hierarchy"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if m.popup != popupNone {
			return m.handlePopupKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.popup != popupNone || m.screen != screenChart {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 4
		m.logViewport.Height = msg.Height - 6
		m.clampCursor()
		return m, nil

	case projectLoadedMsg:
		if msg.err != nil {
			m.setStatus("Error: " + msg.err.Error())
			return m, nil
		}
		// A reload landing mid-gesture would pull the bar out from under
		// the pointer; the gesture's own save triggers another reload.
		if m.drag.Dragging() {
			return m, nil
		}
		m.name = msg.name
		m.tasks = msg.tasks
		m.links = msg.links
		m.collapsed = hierarchy.NewCollapsed(msg.collapsed...)
		m.rebuild()
		return m, nil

	case eventsLoadedMsg:
		if msg.err != nil {
			m.setStatus("Error: " + msg.err.Error())
			return m, nil
		}
		m.logViewport.SetContent(m.renderEvents(msg.events))
		m.logViewport.GotoTop()
		m.screen = screenLog
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setStatus("Error: " + msg.err.Error())
		} else {
			m.setStatus(msg.status)
		}
		return m, m.loadProject()
	}

	if m.screen == screenLog {
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// --- Keys ---

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.drag.Reset()
		m.quitting = true
		return m, tea.Quit
	}

	if m.screen == screenLog {
		return m.handleLogKey(msg)
	}
	return m.handleChartKey(msg)
}

func (m Model) handleChartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if out, ok := m.drag.Cancel(); ok {
			m.rebuild()
			m.setStatus("Cancelled " + out.Mode.String() + " of " + out.TaskID)
		}
		return m, nil

	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		m.cursor--
		m.clampCursor()
	case "g", "home":
		m.cursor = 0
		m.clampCursor()
	case "G", "end":
		m.cursor = m.chart.Rows - 1
		m.clampCursor()
	case "h", "left":
		m.pan(-1)
	case "l", "right":
		m.pan(1)

	// Collapse / expand a group.
	case "enter", " ":
		ct, ok := m.selected()
		if !ok || !ct.HasChildren {
			return m, nil
		}
		ev := m.collapsed.Toggle(ct.ID)
		m.rebuild()
		return m, m.saveCollapsed(ev)

	// Time scale.
	case "d":
		m.setScale(gantt.ScaleDay)
	case "w":
		m.setScale(gantt.ScaleWeek)
	case "m":
		m.setScale(gantt.ScaleMonth)
	case "tab":
		m.setScale(m.opts.Scale.Next())

	// Keyboard editing goes through the same controller as the mouse.
	case "<", ",":
		return m.nudge(drag.ModeMove, -1)
	case ">", ".":
		return m.nudge(drag.ModeMove, 1)
	case "[":
		return m.nudge(drag.ModeResizeRight, -1)
	case "]":
		return m.nudge(drag.ModeResizeRight, 1)
	case "{":
		return m.nudge(drag.ModeResizeLeft, -1)
	case "}":
		return m.nudge(drag.ModeResizeLeft, 1)

	// Progress.
	case "p":
		ct, ok := m.selected()
		if !ok || ct.IsGroup() || ct.Disabled {
			return m, nil
		}
		m.popup = popupProgress
		m.textInput.Reset()
		m.textInput.SetValue(ftoa(ct.Progress))
		m.textInput.Placeholder = "0-100"
		m.textInput.Focus()
		return m, textinput.Blink

	// Baseline.
	case "b":
		if ct, ok := m.selected(); ok {
			return m, m.captureBaseline(ct.ID)
		}
	case "B":
		m.popup = popupBaseline
		return m, nil

	case "L":
		return m, m.loadEvents()
	case "r", "R":
		return m, m.loadProject()
	}

	return m, nil
}

// nudge shifts one edge (or the whole bar) of the selected task by whole
// days, as if the bar had been dragged.
func (m Model) nudge(mode drag.Mode, days int) (tea.Model, tea.Cmd) {
	ct, ok := m.selected()
	if !ok {
		return m, nil
	}
	e := m.chart.Engine
	edge, pointer := ct.Start, ct.X
	if mode == drag.ModeResizeRight {
		edge, pointer = ct.End, ct.Right()
	}
	if !m.drag.Begin(ct, mode, pointer) {
		m.setStatus("Cannot " + mode.String() + " " + ct.ID)
		return m, nil
	}
	// Aim at the middle of the target day so snapping lands on it.
	target := e.X(calendar.AddDays(calendar.StartOfDay(edge), days)) + e.PixelsPerDay()/2
	m.drag.Move(target)
	return m.finishDrag()
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "L":
		m.screen = screenChart
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// --- Mouse ---

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursor--
		m.clampCursor()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.cursor++
		m.clampCursor()
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		row, ok := m.grid.lineRow(msg.Y)
		if !ok {
			return m, nil
		}
		ct, ok := m.chart.RowTask(row)
		if !ok {
			return m, nil
		}
		m.cursor = row
		m.clampCursor()
		if msg.X < m.grid.labelWidth {
			return m, nil
		}
		x, ok := m.grid.hit(msg.X-m.grid.labelWidth, ct)
		if !ok {
			return m, nil
		}
		// The clamped point picks the mode; the gesture is anchored at the
		// cell center so releasing on the same cell is a zero delta.
		pointer, _ := m.grid.cellX(msg.X)
		if mode := drag.HitMode(ct, x); m.drag.Begin(ct, mode, pointer) {
			m.setStatus(mode.String() + " " + ct.ID)
		}
		return m, nil

	case tea.MouseActionMotion:
		if x, ok := m.grid.cellX(msg.X); ok {
			m.drag.Move(x)
		}
		return m, nil

	case tea.MouseActionRelease:
		if x, ok := m.grid.cellX(msg.X); ok {
			m.drag.Move(x)
		}
		return m.finishDrag()
	}
	return m, nil
}

// finishDrag ends the active gesture, applies a changed schedule to the
// local copy right away and persists it in the background.
func (m Model) finishDrag() (tea.Model, tea.Cmd) {
	out, ok := m.drag.End()
	if !ok {
		return m, nil
	}
	if out.Cancelled {
		m.rebuild()
		return m, nil
	}
	tasks := make([]gantt.Task, len(m.tasks))
	copy(tasks, m.tasks)
	for i := range tasks {
		if tasks[i].ID == out.TaskID {
			tasks[i].Start, tasks[i].End = out.Start, out.End
		}
	}
	m.tasks = tasks
	m.rebuild()
	return m, m.saveDates(out)
}

// --- Popup keys ---

func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.popup {
	case popupProgress:
		return m.handleProgressPopup(msg)
	case popupBaseline:
		return m.handleBaselinePopup(msg)
	}
	return m, nil
}

func (m Model) handleProgressPopup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.popup = popupNone
		return m, nil
	case "enter":
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(m.textInput.Value()), "%"), 64)
		if err != nil || v < 0 || v > 100 {
			m.setStatus("Progress must be a number from 0 to 100")
			return m, nil
		}
		ct, ok := m.selected()
		m.popup = popupNone
		if !ok {
			return m, nil
		}
		return m, m.saveProgress(ct.ID, v)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleBaselinePopup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.popup = popupNone
		return m, m.captureBaseline()
	case "n", "esc":
		m.popup = popupNone
	}
	return m, nil
}

// statusVisible reports whether the status line is still fresh.
func (m Model) statusVisible() bool {
	return m.statusMsg != "" && m.now().Sub(m.statusTime) < 5*time.Second
}
