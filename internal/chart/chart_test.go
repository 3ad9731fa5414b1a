package chart

import (
	"testing"
	"time"

	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/hierarchy"
)

func date(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func sample() ([]gantt.Task, []gantt.Link) {
	tasks := []gantt.Task{
		{ID: "g", Kind: gantt.KindGroup, Start: date(2), End: date(12)},
		{ID: "a", ParentID: "g", Start: date(2), End: date(6)},
		{ID: "b", ParentID: "g", Start: date(8), End: date(12)},
		{ID: "c", Start: date(15), End: date(20)},
	}
	links := []gantt.Link{{ID: "l1", From: "a", To: "b", Type: gantt.FinishToStart}}
	return tasks, links
}

func january() gantt.Options {
	opts := gantt.DefaultOptions()
	opts.CustomRange = &gantt.Range{Start: date(1), End: date(31)}
	return opts
}

func TestBuild(t *testing.T) {
	tasks, links := sample()
	c := Build(tasks, links, january(), nil, date(1))

	if c.Width() != 31*40 {
		t.Errorf("expected width 1240, got %f", c.Width())
	}
	if c.Rows != 4 || c.Height() != 160 {
		t.Errorf("expected 4 rows 160px high, got %d rows %fpx", c.Rows, c.Height())
	}
	if len(c.Paths) != 1 {
		t.Errorf("expected 1 routed link, got %d", len(c.Paths))
	}
	if len(c.Ticks) != 31 {
		t.Errorf("expected 31 day ticks, got %d", len(c.Ticks))
	}
	if !c.Range().Start.Equal(date(1)) {
		t.Errorf("custom range should win, got %s", c.Range().Start)
	}
}

func TestBuild_CollapsedHidesRowsAndLinks(t *testing.T) {
	tasks, links := sample()
	c := Build(tasks, links, january(), hierarchy.NewCollapsed("g"), date(1))

	if c.Rows != 2 || len(c.Visible()) != 2 {
		t.Fatalf("expected 2 visible rows, got %d", c.Rows)
	}
	if len(c.Paths) != 0 {
		t.Errorf("links into a collapsed group should be dropped, got %d", len(c.Paths))
	}
	if ct, ok := c.RowTask(1); !ok || ct.ID != "c" {
		t.Errorf("expected c in row 1, got %+v", ct)
	}
	if len(c.Tasks) != 4 {
		t.Errorf("hidden tasks should stay in the computed list, got %d", len(c.Tasks))
	}
}

func TestAt(t *testing.T) {
	tasks, links := sample()
	c := Build(tasks, links, january(), nil, date(1))
	a, _ := c.Task("a")
	y := c.Geometry.AnchorY(a.Row)

	if got, ok := c.At(a.X+5, y); !ok || got.ID != "a" {
		t.Errorf("expected hit on a, got %+v", got)
	}
	if got, ok := c.At(a.X+5, c.Geometry.AnchorY(0)); !ok || got.ID != "g" {
		t.Errorf("expected hit on g, got %+v", got)
	}
	if _, ok := c.At(1000, y); ok {
		t.Error("expected miss beside the bar")
	}
	if _, ok := c.At(a.X+5, c.Height()+10); ok {
		t.Error("expected miss below the last row")
	}
	if _, ok := c.At(a.X+5, -3); ok {
		t.Error("expected miss above the chart")
	}
}

func TestBuild_ZeroOptionsUseDefaults(t *testing.T) {
	tasks, _ := sample()
	c := Build(tasks, nil, gantt.Options{}, nil, date(1))
	if c.Options.Scale != gantt.ScaleDay || c.Geometry.RowHeight != 40 {
		t.Errorf("expected defaults, got %+v", c.Options)
	}
}

func TestBuild_EmptyAnchorsOnNow(t *testing.T) {
	c := Build(nil, nil, gantt.DefaultOptions(), nil, date(15))
	if !c.Range().Contains(date(15)) {
		t.Errorf("empty chart should cover now, got %+v", c.Range())
	}
	if c.Rows != 0 || c.Height() != 0 {
		t.Error("empty chart should have no rows")
	}
}
