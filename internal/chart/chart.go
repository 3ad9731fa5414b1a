// Package chart assembles one render pass: range, coordinate engine, bar
// geometry, ticks and connector paths, built together from the same inputs.
package chart

import (
	"time"

	"github.com/imkarma/gantt/internal/calendar"
	"github.com/imkarma/gantt/internal/coords"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/hierarchy"
	"github.com/imkarma/gantt/internal/layout"
	"github.com/imkarma/gantt/internal/route"
)

// Chart is a derived, read-only view. Rebuild it whenever tasks, links,
// options or the collapsed set change.
type Chart struct {
	Options  gantt.Options
	Engine   coords.Engine
	Geometry layout.Geometry
	Tasks    []gantt.ComputedTask
	Paths    []route.Path
	Ticks    []time.Time
	Rows     int
}

// Build computes a chart. now anchors the range when there are no dated
// tasks. Zero or invalid options fall back to the defaults.
func Build(tasks []gantt.Task, links []gantt.Link, opts gantt.Options, collapsed *hierarchy.Collapsed, now time.Time) *Chart {
	opts = normalize(opts)

	r := calendar.ResolveRange(tasks, opts, now)
	engine := coords.NewEngine(r, opts.Scale)
	geom := layout.Geometry{RowHeight: opts.RowHeight}
	computed := layout.Compute(tasks, r, engine.Width, collapsed)

	return &Chart{
		Options:  opts,
		Engine:   engine,
		Geometry: geom,
		Tasks:    computed,
		Paths:    route.Route(computed, links, geom),
		Ticks:    calendar.Ticks(r, opts.Scale, opts.FirstDayOfWeek),
		Rows:     layout.VisibleRows(computed),
	}
}

func normalize(opts gantt.Options) gantt.Options {
	def := gantt.DefaultOptions()
	if !opts.Scale.Valid() {
		opts.Scale = def.Scale
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = def.RowHeight
	}
	if opts.PaddingDays < 0 {
		opts.PaddingDays = 0
	}
	return opts
}

// Range returns the date range the chart covers.
func (c *Chart) Range() gantt.Range { return c.Engine.Range }

// Width returns the pixel width of the timeline.
func (c *Chart) Width() float64 { return c.Engine.Width }

// Height returns the pixel height of the visible rows.
func (c *Chart) Height() float64 { return c.Geometry.Height(c.Rows) }

// Visible returns the visible tasks in row order.
func (c *Chart) Visible() []gantt.ComputedTask {
	out := make([]gantt.ComputedTask, 0, c.Rows)
	for _, t := range c.Tasks {
		if t.Visible {
			out = append(out, t)
		}
	}
	return out
}

// Task looks up a computed task by id.
func (c *Chart) Task(id string) (gantt.ComputedTask, bool) {
	for _, t := range c.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return gantt.ComputedTask{}, false
}

// RowTask returns the visible task drawn in row.
func (c *Chart) RowTask(row int) (gantt.ComputedTask, bool) {
	if row < 0 || row >= c.Rows {
		return gantt.ComputedTask{}, false
	}
	for _, t := range c.Tasks {
		if t.Visible && t.Row == row {
			return t, true
		}
	}
	return gantt.ComputedTask{}, false
}

// At hit-tests a pixel point against the visible bars.
func (c *Chart) At(x, y float64) (gantt.ComputedTask, bool) {
	t, ok := c.RowTask(c.Geometry.RowAt(y))
	if !ok || x < t.X || x > t.Right() {
		return gantt.ComputedTask{}, false
	}
	return t, true
}
