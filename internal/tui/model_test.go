package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imkarma/gantt/internal/config"
	"github.com/imkarma/gantt/internal/drag"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/store"
)

func date(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.Local)
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testModel loads s into a sized model over January 2024 at 8px per cell
// with a 24 column label area. Day scale is 40px per day, so one day spans
// five cells and day d starts at cell 5*(d-1).
func testModel(t *testing.T, s *store.Store) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Chart.CustomDateRange = &config.DateRange{Start: "2024-01-01", End: "2024-01-31"}
	cfg.TUI.PxPerCell = 8
	cfg.TUI.LabelWidth = 24

	m := New(s, cfg)
	m.now = func() time.Time { return date(10) }
	m = update(t, m, m.Init()())
	return update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends msg and runs the returned commands, feeding each message
// back in until the chain settles.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for i := 0; cmd != nil && i < 5; i++ {
		out := cmd()
		if out == nil {
			break
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func mustCreate(t *testing.T, s *store.Store, task gantt.Task) {
	t.Helper()
	if _, err := s.CreateTask(task, "test"); err != nil {
		t.Fatalf("CreateTask %s: %v", task.ID, err)
	}
}

func mustGet(t *testing.T, s *store.Store, id string) *gantt.Task {
	t.Helper()
	task, err := s.GetTask(id)
	if err != nil {
		t.Fatalf("GetTask %s: %v", id, err)
	}
	return task
}

func TestModel_LoadsProject(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	mustCreate(t, s, gantt.Task{ID: "b", Name: "Build", Start: date(6), End: date(12)})

	m := testModel(t, s)
	if m.chart.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", m.chart.Rows)
	}
	out := m.View()
	for _, want := range []string{"Design", "Build", string(glyphRemaining)} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_MouseDragMovesTask(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	m := testModel(t, s)

	// Bar spans cells 10..24; grab the middle (cell 17) on row 0.
	m = press(t, m, mouse(tea.MouseActionPress, 24+17, headerLines))
	if !m.drag.Dragging() {
		t.Fatal("press on the bar body should start a drag")
	}
	// Ten cells right is two days and a bit.
	m = press(t, m, mouse(tea.MouseActionMotion, 24+28, headerLines))
	if p, ok := m.drag.Preview(); !ok || !p.Start.Equal(date(5)) {
		t.Fatalf("preview = %+v, want start %v", p, date(5))
	}
	if !strings.Contains(m.View(), string(glyphGhost)) {
		t.Error("expected the ghost bar while dragging")
	}
	m = press(t, m, mouse(tea.MouseActionRelease, 24+28, headerLines))
	if m.drag.Dragging() {
		t.Fatal("release should end the drag")
	}

	got := mustGet(t, s, "a")
	if !got.Start.Equal(date(5)) || !got.End.Equal(date(8)) {
		t.Errorf("stored dates %v..%v, want %v..%v", got.Start, got.End, date(5), date(8))
	}
	ct, _ := m.chart.Task("a")
	if !ct.Start.Equal(date(5)) {
		t.Errorf("chart not rebuilt: start %v", ct.Start)
	}
}

func TestModel_MouseEdgeResizes(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	m := testModel(t, s)

	// Cell 24 is the last cell of the bar, inside the right edge zone.
	m = press(t, m, mouse(tea.MouseActionPress, 24+24, headerLines))
	m = press(t, m, mouse(tea.MouseActionRelease, 24+36, headerLines))

	got := mustGet(t, s, "a")
	if !got.Start.Equal(date(3)) || !got.End.Equal(date(8)) {
		t.Errorf("stored dates %v..%v, want %v..%v", got.Start, got.End, date(3), date(8))
	}
}

func TestModel_ClickWithoutDragKeepsDates(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(5), End: date(12)})

	// Week scale draws January over 600px and month scale over 400px, so
	// day boundaries fall inside cells. The bar's first cell is 9 and 6.
	for _, tc := range []struct {
		scale string
		cell  int
	}{
		{"w", 9},
		{"m", 6},
	} {
		m := press(t, testModel(t, s), key(tc.scale))
		ct, _ := m.chart.Task("a")
		if !m.grid.covers(tc.cell, ct.X, ct.Width) || m.grid.covers(tc.cell-1, ct.X, ct.Width) {
			t.Fatalf("scale %s: cell %d is not the bar's first cell (x %v)", tc.scale, tc.cell, ct.X)
		}

		m = press(t, m, mouse(tea.MouseActionPress, 24+tc.cell, headerLines))
		if !m.drag.Dragging() {
			t.Fatalf("scale %s: press on the bar should start a gesture", tc.scale)
		}
		m = press(t, m, mouse(tea.MouseActionRelease, 24+tc.cell, headerLines))

		got := mustGet(t, s, "a")
		if !got.Start.Equal(date(5)) || !got.End.Equal(date(12)) {
			t.Errorf("scale %s: click changed dates to %v..%v", tc.scale, got.Start, got.End)
		}
	}

	events, err := s.GetEvents("a")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range events {
		if e.Type == store.EventMoved || e.Type == store.EventResized {
			t.Errorf("click recorded a %s event: %s", e.Type, e.Content)
		}
	}
}

func TestModel_WeekScaleDragMovesByCells(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(5), End: date(12)})
	m := press(t, testModel(t, s), key("w"))

	// At 600/31 px per day the bar spans 77.4..212.9; cell 17 is its body.
	// Eight cells right is 64px, a little over three days.
	m = press(t, m, mouse(tea.MouseActionPress, 24+17, headerLines))
	if p, ok := m.drag.Preview(); !ok || p.Mode != drag.ModeMove {
		t.Fatalf("expected a move gesture, got %+v", p)
	}
	m = press(t, m, mouse(tea.MouseActionMotion, 24+25, headerLines))
	press(t, m, mouse(tea.MouseActionRelease, 24+25, headerLines))

	got := mustGet(t, s, "a")
	if !got.Start.Equal(date(8)) || !got.End.Equal(date(15)) {
		t.Errorf("stored dates %v..%v, want %v..%v", got.Start, got.End, date(8), date(15))
	}
}

func TestModel_EscCancelsDrag(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	m := testModel(t, s)

	m = press(t, m, mouse(tea.MouseActionPress, 24+17, headerLines))
	m = press(t, m, mouse(tea.MouseActionMotion, 24+40, headerLines))
	m = press(t, m, key("esc"))
	if m.drag.Dragging() {
		t.Fatal("esc should cancel the drag")
	}
	m = press(t, m, mouse(tea.MouseActionRelease, 24+40, headerLines))

	got := mustGet(t, s, "a")
	if !got.Start.Equal(date(3)) {
		t.Errorf("cancelled drag changed start to %v", got.Start)
	}
}

func TestModel_KeyboardNudge(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	m := testModel(t, s)

	m = press(t, m, key(">"))
	got := mustGet(t, s, "a")
	if !got.Start.Equal(date(4)) || !got.End.Equal(date(7)) {
		t.Fatalf("after move: %v..%v", got.Start, got.End)
	}

	m = press(t, m, key("["))
	got = mustGet(t, s, "a")
	if !got.Start.Equal(date(4)) || !got.End.Equal(date(6)) {
		t.Fatalf("after shrinking end: %v..%v", got.Start, got.End)
	}

	press(t, m, key("}"))
	got = mustGet(t, s, "a")
	if !got.Start.Equal(date(5)) || !got.End.Equal(date(6)) {
		t.Fatalf("after moving start: %v..%v", got.Start, got.End)
	}
}

func TestModel_ResizeDisabled(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	cfg := config.DefaultConfig()
	cfg.Chart.AllowResize = false
	m := New(s, cfg)
	m = update(t, m, m.Init()())

	m = press(t, m, key("]"))
	if got := mustGet(t, s, "a"); !got.End.Equal(date(6)) {
		t.Errorf("resize applied while disabled: end %v", got.End)
	}
	if !strings.HasPrefix(m.statusMsg, "Cannot") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestModel_ToggleCollapsePersists(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "g", Name: "Phase", Kind: gantt.KindGroup, Start: date(2), End: date(9)})
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", ParentID: "g", Start: date(3), End: date(6)})
	m := testModel(t, s)

	if m.chart.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", m.chart.Rows)
	}
	m = press(t, m, key(" "))
	if m.chart.Rows != 1 {
		t.Errorf("expected 1 row after collapse, got %d", m.chart.Rows)
	}
	ids, err := s.ListCollapsed()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "g" {
		t.Errorf("collapsed = %v, want [g]", ids)
	}

	m = press(t, m, key(" "))
	if m.chart.Rows != 2 {
		t.Errorf("expected 2 rows after expand, got %d", m.chart.Rows)
	}
}

func TestModel_ProgressPopup(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	m := testModel(t, s)

	m = press(t, m, key("p"))
	if m.popup != popupProgress {
		t.Fatal("p should open the progress popup")
	}
	m.textInput.SetValue("150")
	m = press(t, m, key("enter"))
	if m.popup != popupProgress {
		t.Error("out of range progress should keep the popup open")
	}

	m.textInput.SetValue("75")
	m = press(t, m, key("enter"))
	if m.popup != popupNone {
		t.Error("popup should close after saving")
	}
	if got := mustGet(t, s, "a"); got.Progress != 75 {
		t.Errorf("progress = %v, want 75", got.Progress)
	}
}

func TestModel_BaselineCapture(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	mustCreate(t, s, gantt.Task{ID: "b", Name: "Build", Start: date(6), End: date(9)})
	m := testModel(t, s)

	m = press(t, m, key("B"))
	if m.popup != popupBaseline {
		t.Fatal("B should ask for confirmation")
	}
	m = press(t, m, key("y"))

	for _, id := range []string{"a", "b"} {
		if got := mustGet(t, s, id); !got.HasBaseline() {
			t.Errorf("%s has no baseline", id)
		}
	}
	if !strings.Contains(m.View(), string(glyphBaseline)) {
		t.Error("expected baseline bars in the view")
	}
}

func TestModel_ScaleSwitch(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	m := testModel(t, s)

	dayWidth := m.chart.Width()
	m = press(t, m, key("m"))
	if m.opts.Scale != gantt.ScaleMonth {
		t.Fatalf("scale = %s", m.opts.Scale)
	}
	if m.chart.Width() >= dayWidth {
		t.Errorf("month view should be narrower: %v >= %v", m.chart.Width(), dayWidth)
	}
}

func TestModel_EventLog(t *testing.T) {
	s := testStore(t)
	mustCreate(t, s, gantt.Task{ID: "a", Name: "Design", Start: date(3), End: date(6)})
	m := testModel(t, s)

	m = press(t, m, key("L"))
	if m.screen != screenLog {
		t.Fatal("L should open the event log")
	}
	if !strings.Contains(m.View(), store.EventCreated) {
		t.Error("log should list the create event")
	}
	m = press(t, m, key("esc"))
	if m.screen != screenChart {
		t.Error("esc should return to the chart")
	}
}
