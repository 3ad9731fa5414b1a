package palette

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/imkarma/gantt/internal/gantt"
)

func lightness(t *testing.T, hex string) float64 {
	t.Helper()
	c, err := colorful.Hex(hex)
	if err != nil {
		t.Fatalf("invalid color %q: %v", hex, err)
	}
	_, _, l := c.Hsl()
	return l
}

func TestLightenDarken(t *testing.T) {
	base := "#4f7cff"
	if !(lightness(t, Lighten(base, 0.1)) > lightness(t, base)) {
		t.Error("Lighten should raise lightness")
	}
	if !(lightness(t, Darken(base, 0.1)) < lightness(t, base)) {
		t.Error("Darken should lower lightness")
	}
	if got := Lighten("#ffffff", 0.5); got != "#ffffff" {
		t.Errorf("white should stay white, got %s", got)
	}
	if got := Darken("#000000", 0.5); got != "#000000" {
		t.Errorf("black should stay black, got %s", got)
	}
}

func TestInvalidFallsBack(t *testing.T) {
	if Valid("blue") || Valid("") {
		t.Error("named and empty colors are not valid")
	}
	if got, want := Lighten("nope", 0), Lighten(Fallback, 0); got != want {
		t.Errorf("expected fallback %s, got %s", want, got)
	}
}

func TestBlend(t *testing.T) {
	if got := Blend("#000000", "#ffffff", 1); got != "#000000" {
		t.Errorf("opaque blend should be the color, got %s", got)
	}
	if got := Blend("#000000", "#ffffff", 0); got != "#ffffff" {
		t.Errorf("transparent blend should be the background, got %s", got)
	}
}

func TestRGBA(t *testing.T) {
	if got := RGBA("#ff0000", 0.5); got != "rgba(255,0,0,0.50)" {
		t.Errorf("unexpected %s", got)
	}
}

func TestThemeFill(t *testing.T) {
	th := NewTheme("#336699", "#cc0000", "#444444", "")

	cases := []struct {
		name string
		task gantt.Task
		want string
	}{
		{"plain", gantt.Task{}, "#336699"},
		{"critical", gantt.Task{Critical: true}, "#cc0000"},
		{"group", gantt.Task{Kind: gantt.KindGroup}, "#444444"},
		{"override wins", gantt.Task{Critical: true, Color: "#00ff00"}, "#00ff00"},
	}
	for _, tc := range cases {
		if got := th.Fill(tc.task); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
	if !Valid(th.Baseline) || th.Baseline == th.Bar {
		t.Errorf("baseline should be derived from the bar color, got %q", th.Baseline)
	}
}

func TestThemeExplicitBaseline(t *testing.T) {
	th := NewTheme("", "", "", "#abcdef")
	if th.Baseline != "#abcdef" || th.Bar != Fallback {
		t.Errorf("unexpected theme %+v", th)
	}
}
