// Package route computes orthogonal connector paths for dependency links.
package route

import (
	"math"
	"strconv"
	"strings"

	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/layout"
)

// Routing constants, in pixels.
const (
	Stub           = 12 // horizontal run leaving and entering a bar
	MinStraightGap = 8  // shortest forward gap drawn as one segment
	alignTolerance = 1
)

// Point is a pixel position.
type Point struct {
	X, Y float64
}

// Path is one routed connector. Points is an orthogonal polyline from the
// predecessor anchor to the successor anchor.
type Path struct {
	Link   gantt.Link
	Points []Point
}

// D renders the polyline as an SVG path string.
func (p Path) D() string {
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(num(pt.X))
		b.WriteByte(' ')
		b.WriteString(num(pt.Y))
	}
	return b.String()
}

// End returns the successor anchor and the horizontal direction the path
// arrives in: +1 travelling right, -1 travelling left.
func (p Path) End() (Point, int) {
	n := len(p.Points)
	if n == 0 {
		return Point{}, 0
	}
	last := p.Points[n-1]
	if n > 1 && p.Points[n-2].X > last.X {
		return last, -1
	}
	return last, 1
}

// ArrowHead returns the three corners of a triangle of the given size
// pointing into the successor bar.
func (p Path) ArrowHead(size float64) [3]Point {
	tip, dir := p.End()
	back := tip.X - float64(dir)*size
	return [3]Point{
		tip,
		{back, tip.Y - size/2},
		{back, tip.Y + size/2},
	}
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// Route returns a path for every link whose endpoints are both visible.
// Links with a missing or hidden endpoint, or an unknown type, are dropped.
func Route(tasks []gantt.ComputedTask, links []gantt.Link, g layout.Geometry) []Path {
	visible := make(map[string]gantt.ComputedTask, len(tasks))
	for _, t := range tasks {
		if t.Visible && t.Row != gantt.HiddenRow {
			visible[t.ID] = t
		}
	}

	paths := make([]Path, 0, len(links))
	for _, l := range links {
		from, ok := visible[l.From]
		if !ok {
			continue
		}
		to, ok := visible[l.To]
		if !ok || !l.Type.Valid() {
			continue
		}
		paths = append(paths, Connect(l, from, to, g))
	}
	return paths
}

// anchors returns the exit and entry x for a link type, with the direction
// the path leaves the predecessor (d1) and travels into the successor (d2).
func anchors(lt gantt.LinkType, from, to gantt.ComputedTask) (x1, x2 float64, d1, d2 int) {
	switch lt {
	case gantt.StartToStart:
		return from.X, to.X, -1, 1
	case gantt.FinishToFinish:
		return from.Right(), to.Right(), 1, -1
	case gantt.StartToFinish:
		return from.X, to.Right(), -1, -1
	default:
		return from.Right(), to.X, 1, 1
	}
}

// Connect routes a single link between two placed tasks.
func Connect(l gantt.Link, from, to gantt.ComputedTask, g layout.Geometry) Path {
	x1, x2, d1, d2 := anchors(l.Type, from, to)
	y1, y2 := g.AnchorY(from.Row), g.AnchorY(to.Row)
	p1, p2 := Point{x1, y1}, Point{x2, y2}

	// Same row height and pointing the right way: one segment.
	if math.Abs(y2-y1) < alignTolerance && d1 == d2 && (x2-x1)*float64(d1) >= MinStraightGap {
		return Path{Link: l, Points: []Point{p1, p2}}
	}

	if xm, ok := turnX(x1, x2, d1, d2); ok {
		return Path{Link: l, Points: []Point{p1, {xm, y1}, {xm, y2}, p2}}
	}

	// Backward or overlapping: step out of the predecessor, run along the
	// row boundary on the successor's side, and step back in.
	yd := g.RowTop(from.Row)
	if to.Row >= from.Row {
		yd += g.RowHeight
	}
	xa := x1 + float64(d1)*Stub
	xb := x2 - float64(d2)*Stub
	return Path{Link: l, Points: []Point{p1, {xa, y1}, {xa, yd}, {xb, yd}, {xb, y2}, p2}}
}

// turnX returns the x of the single vertical run of a two-turn path, or
// false when the anchors leave no clearance for one.
func turnX(x1, x2 float64, d1, d2 int) (float64, bool) {
	switch {
	case d1 < 0 && d2 > 0: // both left edges
		return math.Min(x1, x2) - Stub, true
	case d1 > 0 && d2 < 0: // both right edges
		return math.Max(x1, x2) + Stub, true
	case d1 > 0 && x2-x1 >= 2*Stub:
		return x1 + Stub, true
	case d1 < 0 && x1-x2 >= 2*Stub:
		return x1 - Stub, true
	}
	return 0, false
}
