// Package render draws a computed chart as a standalone SVG document.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/imkarma/gantt/internal/calendar"
	"github.com/imkarma/gantt/internal/chart"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/layout"
	"github.com/imkarma/gantt/internal/palette"
)

// Options control SVG output.
type Options struct {
	Title        string
	Theme        palette.Theme
	FontFamily   string
	FontSize     int
	LabelWidth   float64 // task name column, in pixels
	HeaderHeight float64
	ShowBaseline bool
	Now          time.Time // draws a today marker when inside the range; zero disables
}

// DefaultOptions returns the built-in look.
func DefaultOptions() Options {
	return Options{
		Theme:        palette.DefaultTheme(),
		FontFamily:   "Arial, sans-serif",
		FontSize:     12,
		LabelWidth:   220,
		HeaderHeight: 40,
		ShowBaseline: true,
	}
}

const (
	indentPx  = 14
	arrowSize = 6
	radius    = 3
)

// SVG writes c to w.
func SVG(w io.Writer, c *chart.Chart, opts Options) error {
	var svg strings.Builder
	r := &renderer{svg: &svg, c: c, opts: opts, g: c.Geometry}
	r.document()
	_, err := io.WriteString(w, svg.String())
	return err
}

type renderer struct {
	svg  *strings.Builder
	c    *chart.Chart
	opts Options
	g    layout.Geometry
}

func (r *renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.svg, format, args...)
	r.svg.WriteByte('\n')
}

func (r *renderer) document() {
	o := r.opts
	width := o.LabelWidth + r.c.Width()
	height := o.HeaderHeight + r.c.Height()

	r.printf(`<?xml version="1.0" encoding="UTF-8"?>`)
	r.printf(`<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg" font-family="%s" font-size="%d">`,
		num(width), num(height), num(width), num(height), escapeXML(o.FontFamily), o.FontSize)
	if o.Title != "" {
		r.printf(`<title>%s</title>`, escapeXML(o.Title))
	}
	r.printf(`<rect width="100%%" height="100%%" fill="%s"/>`, o.Theme.Background)

	r.labels()

	r.printf(`<g class="timeline" transform="translate(%s,0)">`, num(o.LabelWidth))
	r.header()
	r.printf(`<g class="rows" transform="translate(0,%s)">`, num(o.HeaderHeight))
	r.grid()
	r.links()
	for _, t := range r.c.Visible() {
		r.task(t)
	}
	r.today()
	r.printf(`</g>`)
	r.printf(`</g>`)
	r.printf(`</svg>`)
}

func (r *renderer) header() {
	o := r.opts
	scale := r.c.Options.Scale
	for _, tick := range r.c.Ticks {
		x := r.c.Engine.X(tick)
		lx := max(x, 0) + 4
		r.printf(`<text class="tick" x="%s" y="%s" fill="%s">%s</text>`,
			num(lx), num(o.HeaderHeight-12), o.Theme.Text, escapeXML(calendar.Label(tick, scale)))
	}
	r.printf(`<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s"/>`,
		num(o.HeaderHeight), num(r.c.Width()), num(o.HeaderHeight), o.Theme.Grid)
}

func (r *renderer) grid() {
	theme := r.opts.Theme
	h := r.c.Height()
	for row := 0; row < r.c.Rows; row += 2 {
		r.printf(`<rect class="stripe" x="0" y="%s" width="%s" height="%s" fill="%s"/>`,
			num(r.g.RowTop(row)), num(r.c.Width()), num(r.g.RowHeight), palette.Blend(theme.Grid, theme.Background, 0.35))
	}
	for _, tick := range r.c.Ticks {
		x := r.c.Engine.X(tick)
		if x < 0 {
			continue
		}
		r.printf(`<line class="grid" x1="%s" y1="0" x2="%s" y2="%s" stroke="%s"/>`, num(x), num(x), num(h), theme.Grid)
	}
}

func (r *renderer) labels() {
	o := r.opts
	for _, t := range r.c.Visible() {
		y := o.HeaderHeight + r.g.AnchorY(t.Row) + float64(o.FontSize)/3
		x := 8 + float64(t.Level*indentPx)
		name := t.Name
		if name == "" {
			name = t.ID
		}
		if t.HasChildren {
			marker := "▾"
			if t.Collapsed {
				marker = "▸"
			}
			name = marker + " " + name
		}
		weight := "normal"
		if t.IsGroup() {
			weight = "bold"
		}
		r.printf(`<text class="label" x="%s" y="%s" font-weight="%s" fill="%s">%s</text>`,
			num(x), num(y), weight, o.Theme.Text, escapeXML(name))
	}
}

func (r *renderer) task(t gantt.ComputedTask) {
	theme := r.opts.Theme
	fill := theme.Fill(t.Task)

	if r.opts.ShowBaseline && t.HasBaseline() {
		r.printf(`<rect class="baseline" data-id="%s" x="%s" y="%s" width="%s" height="%s" rx="1" fill="%s"/>`,
			escapeXML(t.ID), num(t.BaselineX), num(r.g.BaselineY(t.Row)), num(t.BaselineWidth), num(r.g.BaselineHeight()), theme.Baseline)
	}

	switch {
	case t.IsMilestone():
		cx, cy, s := t.X, r.g.AnchorY(t.Row), r.g.BarHeight()/2
		r.printf(`<path class="milestone" data-id="%s" d="M %s %s L %s %s L %s %s L %s %s Z" fill="%s"/>`,
			escapeXML(t.ID), num(cx), num(cy-s), num(cx+s), num(cy), num(cx), num(cy+s), num(cx-s), num(cy), fill)

	case t.IsGroup():
		y := r.g.BarY(t.Row)
		h := r.g.BarHeight() / 2
		tip := h
		r.printf(`<path class="group" data-id="%s" d="M %s %s H %s V %s L %s %s H %s L %s %s Z" fill="%s"/>`,
			escapeXML(t.ID),
			num(t.X), num(y), num(t.Right()), num(y+h+tip),
			num(t.Right()-tip), num(y+h),
			num(t.X+tip), num(t.X), num(y+h+tip), fill)

	default:
		y, h := r.g.BarY(t.Row), r.g.BarHeight()
		r.printf(`<rect class="bar" data-id="%s" x="%s" y="%s" width="%s" height="%s" rx="%d" fill="%s" stroke="%s"/>`,
			escapeXML(t.ID), num(t.X), num(y), num(t.Width), num(h), radius, theme.Track(t.Task), fill)
		if pw := layout.ProgressWidth(t); pw > 0 {
			r.printf(`<rect class="progress" x="%s" y="%s" width="%s" height="%s" rx="%d" fill="%s"/>`,
				num(t.X), num(y), num(pw), num(h), radius, fill)
		}
	}
}

func (r *renderer) links() {
	color := r.opts.Theme.Link
	for _, p := range r.c.Paths {
		r.printf(`<path class="link" data-link="%s" d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`,
			escapeXML(p.Link.ID), p.D(), color)
		head := p.ArrowHead(arrowSize)
		r.printf(`<polygon class="arrow" points="%s,%s %s,%s %s,%s" fill="%s"/>`,
			num(head[0].X), num(head[0].Y), num(head[1].X), num(head[1].Y), num(head[2].X), num(head[2].Y), color)
	}
}

func (r *renderer) today() {
	now := r.opts.Now
	if now.IsZero() || !r.c.Range().Contains(now) {
		return
	}
	x := r.c.Engine.X(now)
	r.printf(`<line class="today" x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-dasharray="4 3"/>`,
		num(x), num(x), num(r.c.Height()), r.opts.Theme.Critical)
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML escapes special XML characters in a string to ensure valid SVG output.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
