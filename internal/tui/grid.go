package tui

import (
	"math"
	"strconv"
	"time"

	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/project"
)

// Terminal layout, in lines.
const (
	headerLines = 2 // title, axis
	footerLines = 3 // task detail, status, keys
	linesPerRow = 2 // bar, baseline
)

// grid maps terminal cells onto chart pixels. Column labelWidth is the
// first timeline cell; each cell covers pxPerCell pixels starting at
// offsetPx.
type grid struct {
	labelWidth int
	pxPerCell  float64
	offsetPx   float64
	topRow     int
}

// cols returns the number of timeline cells in a terminal of width w.
func (g grid) cols(w int) int {
	return max(w-g.labelWidth, 0)
}

// span returns the pixel interval [lo, hi) covered by timeline cell c.
func (g grid) span(c int) (lo, hi float64) {
	lo = g.offsetPx + float64(c)*g.pxPerCell
	return lo, lo + g.pxPerCell
}

// cellX maps a terminal column to the pixel at the center of its cell.
// Columns inside the label area report false.
func (g grid) cellX(col int) (float64, bool) {
	if col < g.labelWidth || g.pxPerCell <= 0 {
		return 0, false
	}
	lo, hi := g.span(col - g.labelWidth)
	return (lo + hi) / 2, true
}

// column maps a pixel to the timeline cell containing it, which may lie
// outside the terminal.
func (g grid) column(x float64) int {
	if g.pxPerCell <= 0 {
		return 0
	}
	return int(math.Floor((x - g.offsetPx) / g.pxPerCell))
}

// lineRow maps a terminal line to the chart row drawn on it.
func (g grid) lineRow(line int) (int, bool) {
	if line < headerLines {
		return 0, false
	}
	return g.topRow + (line-headerLines)/linesPerRow, true
}

// covers reports whether cell c overlaps the pixel interval [x, x+w].
// Zero-width intervals still claim the cell they fall in.
func (g grid) covers(c int, x, w float64) bool {
	lo, hi := g.span(c)
	if w <= 0 {
		return x >= lo && x < hi
	}
	return x < hi && x+w > lo
}

// hit finds the point of ct under cell c. The cell center is clamped onto
// the bar so narrow bars and milestones remain grabbable.
func (g grid) hit(c int, ct gantt.ComputedTask) (float64, bool) {
	if !g.covers(c, ct.X, ct.Width) {
		return 0, false
	}
	lo, hi := g.span(c)
	return clamp((lo+hi)/2, ct.X, ct.Right()), true
}

func dateRange(start, end time.Time) string {
	return project.FormatDate(start) + " → " + project.FormatDate(end)
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
