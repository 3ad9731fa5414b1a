// Package layout compiles tasks into bar geometry for one render pass.
package layout

import (
	"time"

	"github.com/imkarma/gantt/internal/coords"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/hierarchy"
)

// Compute flattens tasks and places every bar on the shared coordinate
// system. Baseline bars go through exactly the same DateToX and BarWidth
// calls as current bars. Rows count visible tasks only; hidden tasks get
// gantt.HiddenRow. Malformed input yields degenerate geometry, never an error.
func Compute(tasks []gantt.Task, r gantt.Range, width float64, collapsed *hierarchy.Collapsed) []gantt.ComputedTask {
	entries := hierarchy.Flatten(tasks, collapsed)
	out := make([]gantt.ComputedTask, 0, len(entries))

	row := 0
	for _, e := range entries {
		ct := gantt.ComputedTask{
			Task:        e.Task,
			Row:         gantt.HiddenRow,
			Level:       e.Level,
			Visible:     e.Visible,
			Collapsed:   e.Collapsed,
			HasChildren: e.HasChildren,
		}
		ct.X, ct.Width = place(e.Task.Start, e.Task.End, r, width)
		if e.Task.HasBaseline() {
			ct.BaselineX, ct.BaselineWidth = place(e.Task.BaselineStart, e.Task.BaselineEnd, r, width)
		}
		if e.Visible {
			ct.Row = row
			row++
		}
		out = append(out, ct)
	}
	return out
}

// place is the one transform shared by current and baseline bars.
func place(start, end time.Time, r gantt.Range, width float64) (x, w float64) {
	return coords.DateToX(start, r, width), coords.BarWidth(start, end, r, width, coords.DefaultMinBarWidth)
}
