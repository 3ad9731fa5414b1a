package layout

import (
	"math"

	"github.com/imkarma/gantt/internal/gantt"
)

// Fixed vertical layout constants, in pixels.
const (
	MaxBarHeight      = 20
	MaxBaselineHeight = 8
	BarLift           = 4 // task bar sits this far above row center
	BaselineGap       = 2 // between task bar and baseline bar
)

// Geometry derives the vertical placement of bars from a row height. Task
// bars are lifted off center so the baseline bar fits beneath them; the two
// never overlap.
type Geometry struct {
	RowHeight float64
}

// BarHeight is min(45% of row height, 20px).
func (g Geometry) BarHeight() float64 {
	return math.Min(g.RowHeight*0.45, MaxBarHeight)
}

// BaselineHeight is min(20% of row height, 8px).
func (g Geometry) BaselineHeight() float64 {
	return math.Min(g.RowHeight*0.2, MaxBaselineHeight)
}

// RowTop returns the y coordinate of a row's upper edge.
func (g Geometry) RowTop(row int) float64 {
	return float64(row) * g.RowHeight
}

// BarY returns the top of the task bar in a row.
func (g Geometry) BarY(row int) float64 {
	return g.RowTop(row) + (g.RowHeight-g.BarHeight())/2 - BarLift
}

// BaselineY returns the top of the baseline bar in a row.
func (g Geometry) BaselineY(row int) float64 {
	return g.BarY(row) + g.BarHeight() + BaselineGap
}

// AnchorY returns the vertical center of the task bar, where connectors attach.
func (g Geometry) AnchorY(row int) float64 {
	return g.BarY(row) + g.BarHeight()/2
}

// RowAt returns the row containing y, or gantt.HiddenRow above the chart.
func (g Geometry) RowAt(y float64) int {
	if y < 0 || g.RowHeight <= 0 {
		return gantt.HiddenRow
	}
	return int(y / g.RowHeight)
}

// Height returns the pixel height of rows visible rows.
func (g Geometry) Height(rows int) float64 {
	return float64(rows) * g.RowHeight
}

// ProgressWidth returns the filled part of a bar, progress clamped to [0,100].
func ProgressWidth(ct gantt.ComputedTask) float64 {
	p := math.Max(0, math.Min(100, ct.Progress))
	return ct.Width * p / 100
}

// VisibleRows counts tasks that received a row.
func VisibleRows(tasks []gantt.ComputedTask) int {
	n := 0
	for _, t := range tasks {
		if t.Visible {
			n++
		}
	}
	return n
}
