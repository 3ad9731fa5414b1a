// Package drag implements the pointer gesture state machine for moving and
// resizing bars. A Controller is idle until Begin succeeds, follows the
// pointer through Move, and returns to idle on End (pointer up) or Cancel
// (Escape). It is driven from a single event loop and is not safe for
// concurrent use.
package drag

import (
	"math"
	"time"

	"github.com/imkarma/gantt/internal/calendar"
	"github.com/imkarma/gantt/internal/coords"
	"github.com/imkarma/gantt/internal/gantt"
)

// Mode is the kind of gesture in progress.
type Mode int

const (
	ModeNone Mode = iota
	ModeMove
	ModeResizeLeft
	ModeResizeRight
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResizeLeft:
		return "resize-left"
	case ModeResizeRight:
		return "resize-right"
	default:
		return "none"
	}
}

// IsResize reports whether m changes a single edge.
func (m Mode) IsResize() bool {
	return m == ModeResizeLeft || m == ModeResizeRight
}

// EdgeZone is the width of the resize hit zone at each end of a bar.
const EdgeZone = 8.0

// HitMode classifies a pointer x over a bar. Narrow bars shrink their edge
// zones to a third of the bar so the body stays grabbable. Milestones can
// only be moved.
func HitMode(ct gantt.ComputedTask, x float64) Mode {
	if x < ct.X || x > ct.Right() {
		return ModeNone
	}
	if ct.IsMilestone() {
		return ModeMove
	}
	zone := math.Min(EdgeZone, ct.Width/3)
	switch {
	case x < ct.X+zone:
		return ModeResizeLeft
	case x > ct.Right()-zone:
		return ModeResizeRight
	default:
		return ModeMove
	}
}

// Capturer grabs global pointer and keyboard input for the length of a
// gesture. The returned release func is called exactly once.
type Capturer interface {
	Capture() (release func())
}

// CaptureFunc adapts a function to Capturer.
type CaptureFunc func() (release func())

// Capture implements Capturer.
func (f CaptureFunc) Capture() func() { return f() }

// Config holds the controller settings.
type Config struct {
	Engine      coords.Engine
	AllowDrag   bool
	AllowResize bool
	Capture     Capturer // optional
}

// Preview is the live candidate schedule during a gesture, with the bar
// geometry it would have.
type Preview struct {
	TaskID string
	Mode   Mode
	Start  time.Time
	End    time.Time
	X      float64
	Width  float64
}

// Outcome is the result of a finished gesture. Cancelled is true for Escape
// and for gestures that left the dates unchanged; Start and End are then the
// original dates.
type Outcome struct {
	TaskID    string
	Mode      Mode
	Start     time.Time
	End       time.Time
	Cancelled bool
}

// IsResize reports whether the gesture changed a single edge.
func (o Outcome) IsResize() bool { return o.Mode.IsResize() }

// session is the in-flight gesture. It is updated in place on every move
// and read at End or Cancel.
type session struct {
	engine coords.Engine
	taskID string
	mode   Mode

	pointerX float64
	barX     float64
	barWidth float64

	origStart time.Time
	origEnd   time.Time

	start time.Time
	end   time.Time

	release func()
}

// Controller owns at most one gesture at a time.
type Controller struct {
	cfg    Config
	active *session
}

// New returns an idle controller.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// SetEngine replaces the coordinate system used by the next gesture. A
// gesture already in progress keeps the one it started with.
func (c *Controller) SetEngine(e coords.Engine) {
	c.cfg.Engine = e
}

// SetPermissions updates which gestures may start.
func (c *Controller) SetPermissions(allowDrag, allowResize bool) {
	c.cfg.AllowDrag = allowDrag
	c.cfg.AllowResize = allowResize
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool { return c.active != nil }

// Begin starts a gesture on ct at pointerX. It returns false, leaving the
// controller unchanged, when a gesture is already active, the task is
// disabled or a group, the mode is not permitted, or a milestone would be
// resized.
func (c *Controller) Begin(ct gantt.ComputedTask, mode Mode, pointerX float64) bool {
	if c.active != nil || !c.permits(ct, mode) {
		return false
	}

	s := &session{
		engine:    c.cfg.Engine,
		taskID:    ct.ID,
		mode:      mode,
		pointerX:  pointerX,
		barX:      ct.X,
		barWidth:  ct.Width,
		origStart: ct.Start,
		origEnd:   ct.End,
		start:     ct.Start,
		end:       ct.End,
	}
	if c.cfg.Capture != nil {
		s.release = c.cfg.Capture.Capture()
	}
	c.active = s
	return true
}

func (c *Controller) permits(ct gantt.ComputedTask, mode Mode) bool {
	if ct.Disabled || ct.IsGroup() || !ct.Visible {
		return false
	}
	switch mode {
	case ModeMove:
		return c.cfg.AllowDrag
	case ModeResizeLeft, ModeResizeRight:
		return c.cfg.AllowResize && !ct.IsMilestone()
	default:
		return false
	}
}

// Move recomputes the candidate dates for the pointer at pointerX and
// returns the new preview. It returns false while idle.
func (c *Controller) Move(pointerX float64) (Preview, bool) {
	s := c.active
	if s == nil {
		return Preview{}, false
	}

	dx := pointerX - s.pointerX
	e := s.engine
	switch s.mode {
	case ModeMove:
		start := calendar.StartOfDay(e.Date(e.Snap(s.barX + dx)))
		days := calendar.DiffDays(s.origEnd, s.origStart)
		s.start = start
		s.end = calendar.StartOfDay(calendar.AddDays(start, days))

	case ModeResizeLeft:
		end := calendar.StartOfDay(s.origEnd)
		start := calendar.StartOfDay(e.Date(e.Snap(s.barX + dx)))
		if !start.Before(end) {
			start = calendar.AddDays(end, -1)
		}
		s.start, s.end = start, end

	case ModeResizeRight:
		start := calendar.StartOfDay(s.origStart)
		end := calendar.StartOfDay(e.Date(e.Snap(s.barX + s.barWidth + dx)))
		if !end.After(start) {
			end = calendar.AddDays(start, 1)
		}
		s.start, s.end = start, end
	}

	return c.preview(s), true
}

// Preview returns the live candidate while a gesture is active.
func (c *Controller) Preview() (Preview, bool) {
	if c.active == nil {
		return Preview{}, false
	}
	return c.preview(c.active), true
}

func (c *Controller) preview(s *session) Preview {
	return Preview{
		TaskID: s.taskID,
		Mode:   s.mode,
		Start:  s.start,
		End:    s.end,
		X:      s.engine.X(s.start),
		Width:  s.engine.BarWidth(s.start, s.end),
	}
}

// End finishes the gesture on pointer up. Dates that are unchanged at day
// granularity report Cancelled with the original dates, so a click is
// distinguishable from a drag. It returns false while idle.
func (c *Controller) End() (Outcome, bool) {
	s := c.active
	if s == nil {
		return Outcome{}, false
	}
	c.finish()

	out := Outcome{TaskID: s.taskID, Mode: s.mode}
	if sameDay(s.start, s.origStart) && sameDay(s.end, s.origEnd) {
		out.Start, out.End, out.Cancelled = s.origStart, s.origEnd, true
		return out, true
	}
	out.Start = calendar.StartOfDay(s.start)
	out.End = calendar.StartOfDay(s.end)
	return out, true
}

// Cancel aborts the gesture, reporting the original dates whatever the
// pointer did. It returns false while idle.
func (c *Controller) Cancel() (Outcome, bool) {
	s := c.active
	if s == nil {
		return Outcome{}, false
	}
	c.finish()
	return Outcome{
		TaskID:    s.taskID,
		Mode:      s.mode,
		Start:     s.origStart,
		End:       s.origEnd,
		Cancelled: true,
	}, true
}

// Reset drops any gesture without an outcome, releasing captured input.
// Hosts call it when the chart is torn down mid-drag.
func (c *Controller) Reset() {
	if c.active != nil {
		c.finish()
	}
}

func (c *Controller) finish() {
	s := c.active
	c.active = nil
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

func sameDay(a, b time.Time) bool {
	return calendar.StartOfDay(a).Equal(calendar.StartOfDay(b))
}
