// Package palette derives bar colors from a handful of configured hex values.
// Lightness is adjusted in HSL so saturated colors do not clip per channel.
package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/imkarma/gantt/internal/gantt"
)

// Fallback is used wherever a configured color does not parse.
const Fallback = "#4f7cff"

// Valid reports whether s is a #rgb or #rrggbb color.
func Valid(s string) bool {
	_, err := colorful.Hex(s)
	return err == nil
}

func parse(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		c, _ = colorful.Hex(Fallback)
	}
	return c
}

// Lighten raises HSL lightness by amount in [0,1].
func Lighten(hex string, amount float64) string {
	return adjust(hex, amount)
}

// Darken lowers HSL lightness by amount in [0,1].
func Darken(hex string, amount float64) string {
	return adjust(hex, -amount)
}

func adjust(hex string, delta float64) string {
	h, s, l := parse(hex).Hsl()
	l = math.Max(0, math.Min(1, l+delta))
	return colorful.Hsl(h, s, l).Clamped().Hex()
}

// Blend mixes hex over bg at the given opacity. Terminals have no alpha, so
// translucent fills are pre-blended against the background.
func Blend(hex, bg string, opacity float64) string {
	opacity = math.Max(0, math.Min(1, opacity))
	return parse(bg).BlendRgb(parse(hex), opacity).Clamped().Hex()
}

// RGBA renders hex with an alpha channel for SVG and CSS consumers.
func RGBA(hex string, opacity float64) string {
	r, g, b := parse(hex).RGB255()
	opacity = math.Max(0, math.Min(1, opacity))
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", r, g, b, opacity)
}

// Theme holds the resolved colors for one chart.
type Theme struct {
	Bar        string
	Critical   string
	Group      string
	Baseline   string
	Milestone  string
	Link       string
	Grid       string
	Background string
	Text       string
}

// DefaultTheme returns the built-in colors.
func DefaultTheme() Theme {
	return NewTheme(Fallback, "#e5484d", "#5b6473", "")
}

// NewTheme resolves a theme from the configured colors. An empty baseline
// color is derived from the bar color.
func NewTheme(bar, critical, group, baseline string) Theme {
	bar = orDefault(bar, Fallback)
	t := Theme{
		Bar:        bar,
		Critical:   orDefault(critical, "#e5484d"),
		Group:      orDefault(group, "#5b6473"),
		Baseline:   baseline,
		Milestone:  Darken(bar, 0.15),
		Link:       "#8a94a6",
		Grid:       "#e6e8eb",
		Background: "#ffffff",
		Text:       "#1f2329",
	}
	if !Valid(t.Baseline) {
		t.Baseline = Blend(Darken(bar, 0.1), t.Background, 0.45)
	}
	return t
}

func orDefault(s, def string) string {
	if Valid(s) {
		return s
	}
	return def
}

// Fill returns the bar color for a task: its own override, then critical,
// group or milestone coloring.
func (t Theme) Fill(task gantt.Task) string {
	switch {
	case Valid(task.Color):
		return task.Color
	case task.Critical:
		return t.Critical
	case task.IsGroup():
		return t.Group
	case task.IsMilestone():
		return t.Milestone
	default:
		return t.Bar
	}
}

// Track returns the lighter unfilled part of a bar, behind the progress fill.
func (t Theme) Track(task gantt.Task) string {
	return Lighten(t.Fill(task), 0.22)
}
