package route

import (
	"math"
	"testing"

	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/layout"
)

var geom = layout.Geometry{RowHeight: 40}

func bar(id string, row int, x, w float64) gantt.ComputedTask {
	return gantt.ComputedTask{Task: gantt.Task{ID: id}, X: x, Width: w, Row: row, Visible: true}
}

func link(from, to string, lt gantt.LinkType) gantt.Link {
	return gantt.Link{ID: from + "-" + to, From: from, To: to, Type: lt}
}

func assertPoints(t *testing.T, p Path, want ...Point) {
	t.Helper()
	if len(p.Points) != len(want) {
		t.Fatalf("expected %d points %v, got %v", len(want), want, p.Points)
	}
	for i := range want {
		if math.Abs(p.Points[i].X-want[i].X) > 1e-9 || math.Abs(p.Points[i].Y-want[i].Y) > 1e-9 {
			t.Fatalf("point %d: expected %v, got %v", i, want[i], p.Points[i])
		}
	}
}

func assertOrthogonal(t *testing.T, p Path) {
	t.Helper()
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		if a.X != b.X && a.Y != b.Y {
			t.Fatalf("segment %v -> %v is diagonal", a, b)
		}
	}
}

// crosses reports whether segment a-b passes through the interior of the
// rectangle a bar and its baseline occupy.
func crosses(a, b Point, ct gantt.ComputedTask, g layout.Geometry) bool {
	top := g.BarY(ct.Row)
	bottom := g.BaselineY(ct.Row) + g.BaselineHeight()
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return minX < ct.Right() && maxX > ct.X && minY < bottom && maxY > top
}

func TestConnect_ScenarioD_DetourClearsBars(t *testing.T) {
	// X ends on day 10, Y starts on day 5, 40px per day.
	x := bar("X", 0, 0, 360)
	y := bar("Y", 1, 160, 400)

	p := Connect(link("X", "Y", gantt.FinishToStart), x, y, geom)

	if len(p.Points) < 5 {
		t.Fatalf("expected a multi-segment detour, got %v", p.Points)
	}
	assertOrthogonal(t, p)
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		if crosses(a, b, x, geom) || crosses(a, b, y, geom) {
			t.Errorf("segment %v -> %v cuts through a bar", a, b)
		}
	}
	// Below the predecessor row, on the boundary between the two rows.
	assertPoints(t, p,
		Point{360, 16}, Point{372, 16}, Point{372, 40}, Point{148, 40}, Point{148, 56}, Point{160, 56})
}

func TestConnect_DetourGoesAboveForEarlierRow(t *testing.T) {
	pred := bar("p", 3, 200, 200)
	succ := bar("s", 1, 100, 40)
	p := Connect(link("p", "s", gantt.FinishToStart), pred, succ, geom)

	if got := p.Points[2].Y; got != geom.RowTop(3) {
		t.Errorf("expected detour along the top of row 3 (%v), got %v", geom.RowTop(3), got)
	}
	for i := 1; i < len(p.Points); i++ {
		if crosses(p.Points[i-1], p.Points[i], pred, geom) || crosses(p.Points[i-1], p.Points[i], succ, geom) {
			t.Errorf("segment %v -> %v cuts through a bar", p.Points[i-1], p.Points[i])
		}
	}
}

func TestConnect_StraightWhenAlignedAndForward(t *testing.T) {
	a := bar("a", 2, 0, 100)
	b := bar("b", 2, 140, 60)
	p := Connect(link("a", "b", gantt.FinishToStart), a, b, geom)
	y := geom.AnchorY(2)
	assertPoints(t, p, Point{100, y}, Point{140, y})

	// Too close to read as an arrow: no longer straight.
	b.X = 104
	if p := Connect(link("a", "b", gantt.FinishToStart), a, b, geom); len(p.Points) == 2 {
		t.Errorf("gap under %dpx should not be a straight segment", MinStraightGap)
	}
}

func TestConnect_TwoTurn(t *testing.T) {
	y0, y1 := geom.AnchorY(0), geom.AnchorY(1)

	cases := []struct {
		name     string
		lt       gantt.LinkType
		from, to gantt.ComputedTask
		want     []Point
	}{
		{
			"finish to start with clearance", gantt.FinishToStart,
			bar("a", 0, 0, 160), bar("b", 1, 280, 120),
			[]Point{{160, y0}, {172, y0}, {172, y1}, {280, y1}},
		},
		{
			"start to start", gantt.StartToStart,
			bar("a", 0, 160, 100), bar("b", 1, 40, 100),
			[]Point{{160, y0}, {28, y0}, {28, y1}, {40, y1}},
		},
		{
			"finish to finish", gantt.FinishToFinish,
			bar("a", 0, 160, 200), bar("b", 1, 40, 160),
			[]Point{{360, y0}, {372, y0}, {372, y1}, {200, y1}},
		},
		{
			"start to finish with clearance", gantt.StartToFinish,
			bar("a", 0, 400, 80), bar("b", 1, 40, 160),
			[]Point{{400, y0}, {388, y0}, {388, y1}, {200, y1}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Connect(link("a", "b", tc.lt), tc.from, tc.to, geom)
			assertOrthogonal(t, p)
			assertPoints(t, p, tc.want...)
		})
	}
}

func TestConnect_StartToFinishBackward(t *testing.T) {
	a := bar("a", 0, 100, 80)
	b := bar("b", 1, 200, 100)
	p := Connect(link("a", "b", gantt.StartToFinish), a, b, geom)

	assertOrthogonal(t, p)
	if len(p.Points) != 6 {
		t.Fatalf("expected detour, got %v", p.Points)
	}
	if p.Points[1].X != 88 || p.Points[3].X != 312 {
		t.Errorf("expected stubs at 88 and 312, got %v", p.Points)
	}
	if _, dir := p.End(); dir != -1 {
		t.Errorf("start-to-finish should arrive travelling left, got %d", dir)
	}
}

func TestRoute_DropsMissingAndHidden(t *testing.T) {
	hidden := bar("h", gantt.HiddenRow, 0, 10)
	hidden.Visible = false
	tasks := []gantt.ComputedTask{bar("a", 0, 0, 100), bar("b", 1, 200, 100), hidden}
	links := []gantt.Link{
		link("a", "b", gantt.FinishToStart),
		link("a", "gone", gantt.FinishToStart),
		link("h", "b", gantt.FinishToStart),
		link("a", "h", gantt.StartToStart),
		link("b", "a", "XX"),
	}

	paths := Route(tasks, links, geom)
	if len(paths) != 1 || paths[0].Link.ID != "a-b" {
		t.Fatalf("expected only a-b to be routed, got %d paths", len(paths))
	}
}

func TestPath_D(t *testing.T) {
	p := Path{Points: []Point{{360, 16}, {372.5, 16}, {372.5, 40.125}}}
	if got, want := p.D(), "M 360 16 L 372.5 16 L 372.5 40.13"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if (Path{}).D() != "" {
		t.Error("empty path should render empty")
	}
}

func TestPath_ArrowHead(t *testing.T) {
	p := Path{Points: []Point{{0, 10}, {50, 10}}}
	head := p.ArrowHead(6)
	if head[0] != (Point{50, 10}) || head[1] != (Point{44, 7}) || head[2] != (Point{44, 13}) {
		t.Errorf("unexpected arrow head %v", head)
	}
}
