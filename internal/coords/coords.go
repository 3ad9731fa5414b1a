// Package coords maps dates to horizontal pixel positions and back.
//
// Every bar the chart draws, current or baseline, goes through DateToX and
// BarWidth with the same range and width, so a shared date always lands on the
// same pixel. XToDate is the exact inverse of DateToX up to millisecond
// precision, which is what lets drag gestures read pixel space back as dates.
package coords

import (
	"math"
	"time"

	"github.com/imkarma/gantt/internal/calendar"
	"github.com/imkarma/gantt/internal/gantt"
)

// Column widths per scale, in pixels.
const (
	DayColumnWidth   = 40
	WeekColumnWidth  = 120
	MonthColumnWidth = 200
)

// DefaultMinBarWidth keeps zero-length and inverted bars grabbable.
const DefaultMinBarWidth = 4

// ColumnWidth returns the pixel width of one column at the given scale.
func ColumnWidth(scale gantt.Scale) float64 {
	switch scale {
	case gantt.ScaleWeek:
		return WeekColumnWidth
	case gantt.ScaleMonth:
		return MonthColumnWidth
	default:
		return DayColumnWidth
	}
}

// ChartWidth returns the total pixel width of r drawn at scale.
func ChartWidth(r gantt.Range, scale gantt.Scale) float64 {
	days := calendar.DaysInRange(r)
	columns := days
	switch scale {
	case gantt.ScaleWeek:
		columns = ceilDiv(days, 7)
	case gantt.ScaleMonth:
		columns = ceilDiv(days, 30)
	}
	return float64(columns) * ColumnWidth(scale)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// DateToX interpolates d linearly across r onto [0, width].
func DateToX(d time.Time, r gantt.Range, width float64) float64 {
	span := r.Span()
	if span <= 0 {
		return 0
	}
	return float64(d.Sub(r.Start)) / float64(span) * width
}

// XToDate is the inverse of DateToX, rounded to the millisecond.
// Non-finite x or a degenerate range returns r.Start.
func XToDate(x float64, r gantt.Range, width float64) time.Time {
	span := r.Span()
	if span <= 0 || width <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return r.Start
	}
	offset := x / width * float64(span)
	ms := math.Round(offset / float64(time.Millisecond))
	return r.Start.Add(time.Duration(ms) * time.Millisecond)
}

// BarWidth returns the pixel width of [start, end], floored at minWidth.
func BarWidth(start, end time.Time, r gantt.Range, width, minWidth float64) float64 {
	w := DateToX(end, r, width) - DateToX(start, r, width)
	return math.Max(w, minWidth)
}

// SnapToGrid moves x to the start of the day it falls in. All scales snap
// to whole days; week and month views do not snap to their own columns.
func SnapToGrid(x float64, r gantt.Range, width float64, scale gantt.Scale) float64 {
	d := calendar.StartOfDay(XToDate(x, r, width))
	return DateToX(d, r, width)
}

// Engine bundles a range, its chart width and the scale it was sized for.
type Engine struct {
	Range gantt.Range
	Width float64
	Scale gantt.Scale
}

// NewEngine sizes r at scale.
func NewEngine(r gantt.Range, scale gantt.Scale) Engine {
	return Engine{Range: r, Width: ChartWidth(r, scale), Scale: scale}
}

// X maps a date to a pixel offset.
func (e Engine) X(d time.Time) float64 { return DateToX(d, e.Range, e.Width) }

// Date maps a pixel offset to a date.
func (e Engine) Date(x float64) time.Time { return XToDate(x, e.Range, e.Width) }

// BarWidth returns the width of [start, end] with the default floor.
func (e Engine) BarWidth(start, end time.Time) float64 {
	return BarWidth(start, end, e.Range, e.Width, DefaultMinBarWidth)
}

// Snap snaps x to the day grid.
func (e Engine) Snap(x float64) float64 { return SnapToGrid(x, e.Range, e.Width, e.Scale) }

// PixelsPerDay is the horizontal size of one day.
func (e Engine) PixelsPerDay() float64 {
	span := e.Range.Span()
	if span <= 0 {
		return 0
	}
	return e.Width * float64(calendar.Day) / float64(span)
}
