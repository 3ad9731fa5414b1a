// Package calendar provides the day, week and month arithmetic the chart is
// built on, and derives the chart's date range from a task collection.
package calendar

import (
	"time"

	"github.com/imkarma/gantt/internal/gantt"
)

// Day is the length of one calendar day in a zone without DST shifts.
const Day = 24 * time.Hour

// StartOfDay returns 00:00:00.000 of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// AddDays moves t by n calendar days, keeping the wall clock.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths moves t by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// DiffDays returns the number of whole days from b to a, truncated toward zero.
// Days are counted on the wall clock of a's location, so a span crossing a
// DST change still counts the days a calendar shows.
func DiffDays(a, b time.Time) int {
	b = b.In(a.Location())
	d := calendarDays(a, b)
	ca, cb := clock(a), clock(b)
	switch {
	case d > 0 && ca < cb:
		d--
	case d < 0 && ca > cb:
		d++
	}
	return d
}

// clock returns the wall-clock time elapsed since t's midnight.
func clock(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

// DaysInRange counts the calendar days touched by r, both ends included.
func DaysInRange(r gantt.Range) int {
	start := StartOfDay(r.Start)
	end := StartOfDay(r.End)
	if end.Before(start) {
		return 0
	}
	return calendarDays(end, start) + 1
}

// calendarDays counts date changes between b and a, ignoring wall clock and
// DST-shortened days.
func calendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ua.Sub(ub) / Day)
}

// StartOfWeek returns the start of t's week, where weeks begin on firstDay.
func StartOfWeek(t time.Time, firstDay time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(firstDay) + 7) % 7
	return AddDays(StartOfDay(t), -offset)
}

// StartOfMonth returns 00:00 on the first of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// DeriveRange spans every task's current and baseline dates, padded by
// paddingDays on both sides and widened to whole days. Zero instants are
// ignored. The bool is false when no task carries a usable date.
func DeriveRange(tasks []gantt.Task, paddingDays int) (gantt.Range, bool) {
	var lo, hi time.Time
	found := false
	see := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if !found {
			lo, hi, found = t, t, true
			return
		}
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}

	for _, t := range tasks {
		see(t.Start)
		see(t.End)
		see(t.BaselineStart)
		see(t.BaselineEnd)
	}
	if !found {
		return gantt.Range{}, false
	}

	return gantt.Range{
		Start: StartOfDay(AddDays(lo, -paddingDays)),
		End:   EndOfDay(AddDays(hi, paddingDays)),
	}, true
}

// DeriveRangeAt is DeriveRange with a fallback: an empty collection yields a
// padded range around now.
func DeriveRangeAt(tasks []gantt.Task, paddingDays int, now time.Time) gantt.Range {
	if r, ok := DeriveRange(tasks, paddingDays); ok {
		return r
	}
	return gantt.Range{
		Start: StartOfDay(AddDays(now, -paddingDays)),
		End:   EndOfDay(AddDays(now, paddingDays)),
	}
}

// ResolveRange picks the custom range from opts when set, normalized to day
// boundaries, and derives one from tasks otherwise.
func ResolveRange(tasks []gantt.Task, opts gantt.Options, now time.Time) gantt.Range {
	if cr := opts.CustomRange; cr != nil && !cr.Start.IsZero() && !cr.End.IsZero() {
		return gantt.Range{Start: StartOfDay(cr.Start), End: EndOfDay(cr.End)}
	}
	return DeriveRangeAt(tasks, opts.PaddingDays, now)
}
