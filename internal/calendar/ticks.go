package calendar

import (
	"time"

	"github.com/imkarma/gantt/internal/gantt"
)

// Ticks returns the column boundaries of r at the given scale. The first tick
// is the start of the period containing r.Start and may precede it.
func Ticks(r gantt.Range, scale gantt.Scale, firstDay time.Weekday) []time.Time {
	if r.End.Before(r.Start) {
		return nil
	}

	var t time.Time
	var step func(time.Time) time.Time
	switch scale {
	case gantt.ScaleWeek:
		t = StartOfWeek(r.Start, firstDay)
		step = func(t time.Time) time.Time { return AddDays(t, 7) }
	case gantt.ScaleMonth:
		t = StartOfMonth(r.Start)
		step = func(t time.Time) time.Time { return AddMonths(t, 1) }
	default:
		t = StartOfDay(r.Start)
		step = func(t time.Time) time.Time { return AddDays(t, 1) }
	}

	var ticks []time.Time
	for !t.After(r.End) {
		ticks = append(ticks, t)
		t = step(t)
	}
	return ticks
}

// Label formats a tick for the axis header of the given scale.
func Label(t time.Time, scale gantt.Scale) string {
	switch scale {
	case gantt.ScaleWeek:
		return t.Format("Jan 02")
	case gantt.ScaleMonth:
		return t.Format("Jan 2006")
	default:
		return t.Format("02")
	}
}
