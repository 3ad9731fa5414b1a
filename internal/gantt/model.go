// Package gantt holds the data model shared by the chart engine: tasks,
// dependency links, date ranges, time scales and the computed per-render view.
package gantt

import "time"

// Kind distinguishes plain tasks, milestones and groups.
type Kind string

const (
	KindTask      Kind = "task"
	KindMilestone Kind = "milestone" // point in time, drawn as a diamond
	KindGroup     Kind = "group"     // aggregates children, drawn as a bracket
)

// Valid reports whether k is a known kind. The empty kind counts as a task.
func (k Kind) Valid() bool {
	switch k {
	case "", KindTask, KindMilestone, KindGroup:
		return true
	}
	return false
}

// Task is a schedulable unit of work.
type Task struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Kind     Kind      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Start    time.Time `json:"start" yaml:"start"`
	End      time.Time `json:"end" yaml:"end"`
	Progress float64   `json:"progress" yaml:"progress"` // 0-100

	// Baseline is the originally planned schedule. Zero values mean absent.
	BaselineStart time.Time `json:"baseline_start,omitempty" yaml:"baseline_start,omitempty"`
	BaselineEnd   time.Time `json:"baseline_end,omitempty" yaml:"baseline_end,omitempty"`

	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Critical bool   `json:"critical,omitempty" yaml:"critical,omitempty"` // caller-supplied, never computed
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
}

// HasBaseline reports whether both baseline dates are set.
func (t Task) HasBaseline() bool {
	return !t.BaselineStart.IsZero() && !t.BaselineEnd.IsZero()
}

// IsGroup reports whether t aggregates children.
func (t Task) IsGroup() bool { return t.Kind == KindGroup }

// IsMilestone reports whether t is a point-in-time marker.
func (t Task) IsMilestone() bool { return t.Kind == KindMilestone }

// LinkType is the dependency relationship between two tasks.
type LinkType string

const (
	FinishToStart  LinkType = "FS"
	StartToStart   LinkType = "SS"
	FinishToFinish LinkType = "FF"
	StartToFinish  LinkType = "SF"
)

// Valid reports whether lt is one of the four known link types.
func (lt LinkType) Valid() bool {
	switch lt {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Link is a directed, typed dependency From -> To.
// LagDays is informational only; layout never shifts dates by it.
type Link struct {
	ID      string   `json:"id" yaml:"id"`
	From    string   `json:"from" yaml:"from"`
	To      string   `json:"to" yaml:"to"`
	Type    LinkType `json:"type" yaml:"type"`
	LagDays int      `json:"lag_days,omitempty" yaml:"lag_days,omitempty"`
}

// Range is the inclusive instant span covered by the chart.
type Range struct {
	Start time.Time
	End   time.Time
}

// Span returns End - Start.
func (r Range) Span() time.Duration { return r.End.Sub(r.Start) }

// Contains reports whether t lies within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Scale is the granularity of the timeline axis.
type Scale string

const (
	ScaleDay   Scale = "day"
	ScaleWeek  Scale = "week"
	ScaleMonth Scale = "month"
)

// Valid reports whether s is a known scale.
func (s Scale) Valid() bool {
	switch s {
	case ScaleDay, ScaleWeek, ScaleMonth:
		return true
	}
	return false
}

// Next cycles day -> week -> month -> day.
func (s Scale) Next() Scale {
	switch s {
	case ScaleDay:
		return ScaleWeek
	case ScaleWeek:
		return ScaleMonth
	default:
		return ScaleDay
	}
}

// ComputedTask is a Task annotated with the geometry and visibility of one
// render pass. It is rebuilt from scratch whenever any input changes.
type ComputedTask struct {
	Task

	X     float64
	Width float64

	// Baseline geometry; meaningful only when HasBaseline reports true.
	BaselineX     float64
	BaselineWidth float64

	Row         int // index among visible tasks, HiddenRow when hidden
	Level       int // ancestor depth
	Visible     bool
	Collapsed   bool
	HasChildren bool
}

// HiddenRow is the row index given to tasks under a collapsed ancestor.
const HiddenRow = -1

// Right returns the x coordinate of the bar's right edge.
func (c ComputedTask) Right() float64 { return c.X + c.Width }

// Options are the chart settings the core recognizes.
type Options struct {
	Scale          Scale
	RowHeight      float64
	PaddingDays    int
	AllowDrag      bool
	AllowResize    bool
	CustomRange    *Range
	FirstDayOfWeek time.Weekday // Sunday or Monday
	ShowBaseline   bool
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Scale:        ScaleDay,
		RowHeight:    40,
		PaddingDays:  7,
		AllowDrag:    true,
		AllowResize:  true,
		ShowBaseline: true,
	}
}
