package hierarchy

import (
	"testing"

	"github.com/imkarma/gantt/internal/gantt"
)

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Task.ID
	}
	return out
}

func assertOrder(t *testing.T, entries []Entry, want ...string) {
	t.Helper()
	got := ids(entries)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFlatten_PreOrder(t *testing.T) {
	tasks := []gantt.Task{
		{ID: "b1", ParentID: "b"},
		{ID: "a"},
		{ID: "b"},
		{ID: "a1", ParentID: "a"},
		{ID: "a2", ParentID: "a"},
		{ID: "a1x", ParentID: "a1"},
	}

	entries := Flatten(tasks, nil)
	assertOrder(t, entries, "a", "a1", "a1x", "a2", "b", "b1")

	levels := map[string]int{"a": 0, "a1": 1, "a1x": 2, "a2": 1, "b": 0, "b1": 1}
	for _, e := range entries {
		if e.Level != levels[e.Task.ID] {
			t.Errorf("%s: expected level %d, got %d", e.Task.ID, levels[e.Task.ID], e.Level)
		}
		if !e.Visible {
			t.Errorf("%s: expected visible with nothing collapsed", e.Task.ID)
		}
	}
	if !entries[0].HasChildren || entries[2].HasChildren {
		t.Error("HasChildren flags wrong")
	}
}

func TestFlatten_OrphanPromoted(t *testing.T) {
	tasks := []gantt.Task{
		{ID: "a"},
		{ID: "orphan", ParentID: "gone"},
	}
	entries := Flatten(tasks, nil)
	assertOrder(t, entries, "a", "orphan")
	if entries[1].Level != 0 || !entries[1].Visible {
		t.Errorf("orphan should be a visible root, got %+v", entries[1])
	}
}

func TestFlatten_ScenarioC(t *testing.T) {
	tasks := []gantt.Task{
		{ID: "A", Kind: gantt.KindGroup},
		{ID: "B", ParentID: "A", Kind: gantt.KindGroup},
		{ID: "C", ParentID: "B"},
	}
	entries := Flatten(tasks, NewCollapsed("A"))

	assertOrder(t, entries, "A", "B", "C")
	if !entries[0].Visible || !entries[0].Collapsed {
		t.Errorf("A should be visible and collapsed: %+v", entries[0])
	}
	if entries[1].Visible || entries[2].Visible {
		t.Error("B and C should be hidden under collapsed A")
	}
}

func TestFlatten_NestedCollapseHidesGrandchildrenOnly(t *testing.T) {
	tasks := []gantt.Task{
		{ID: "A"},
		{ID: "B", ParentID: "A"},
		{ID: "C", ParentID: "B"},
		{ID: "D", ParentID: "A"},
	}
	entries := Flatten(tasks, NewCollapsed("B"))
	vis := map[string]bool{}
	for _, e := range entries {
		vis[e.Task.ID] = e.Visible
	}
	if !vis["A"] || !vis["B"] || vis["C"] || !vis["D"] {
		t.Errorf("unexpected visibility %v", vis)
	}
}

func TestFlatten_ParentCycleTerminates(t *testing.T) {
	tasks := []gantt.Task{
		{ID: "root"},
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
		{ID: "z", ParentID: "y"},
	}
	entries := Flatten(tasks, nil)

	assertOrder(t, entries, "root", "x", "y", "z")
	if entries[1].Level != 0 || entries[2].Level != 1 || entries[3].Level != 2 {
		t.Errorf("expected x promoted to root, got levels %d %d %d",
			entries[1].Level, entries[2].Level, entries[3].Level)
	}
}

func TestFlatten_SelfParent(t *testing.T) {
	entries := Flatten([]gantt.Task{{ID: "s", ParentID: "s"}, {ID: "a"}}, nil)
	assertOrder(t, entries, "s", "a")
	if entries[0].HasChildren {
		t.Error("a self-parented task has no children")
	}
	if entries[0].Level != 0 || !entries[0].Visible {
		t.Errorf("expected a visible root, got level %d visible %v", entries[0].Level, entries[0].Visible)
	}
}

func TestCollapsed_Toggle(t *testing.T) {
	c := NewCollapsed()
	ev := c.Toggle("g")
	if ev.Expanded || !c.Has("g") {
		t.Fatalf("first toggle should collapse, got %+v", ev)
	}
	ev = c.Toggle("g")
	if !ev.Expanded || c.Has("g") {
		t.Fatalf("second toggle should expand, got %+v", ev)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty set, got %v", c.IDs())
	}
}

func TestCollapsed_NilReadsEmpty(t *testing.T) {
	var c *Collapsed
	if c.Has("x") || c.Len() != 0 || c.IDs() != nil {
		t.Error("nil set should read as empty")
	}
}
