package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/palette"
)

// Config is the root configuration for a gantt project.
type Config struct {
	Version int    `yaml:"version"`
	Chart   Chart  `yaml:"chart"`
	TUI     TUI    `yaml:"tui"`
	Render  Render `yaml:"render"`
}

// Chart holds the options the chart core recognizes.
type Chart struct {
	TimeScale       string     `yaml:"time_scale"`                  // day, week or month
	RowHeightPx     float64    `yaml:"row_height_px"`               // pixel height of one row
	DatePaddingDays int        `yaml:"date_padding_days"`           // days added on both sides of the derived range
	AllowDrag       bool       `yaml:"allow_drag"`                  // bars may be moved
	AllowResize     bool       `yaml:"allow_resize"`                // bar edges may be dragged
	FirstDayOfWeek  int        `yaml:"first_day_of_week"`           // 0 Sunday, 1 Monday
	CustomDateRange *DateRange `yaml:"custom_date_range,omitempty"` // overrides range derivation
	ShowBaseline    bool       `yaml:"show_baseline"`               // draw baseline bars
}

// DateRange is a calendar span written as YYYY-MM-DD dates.
type DateRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// TUI holds terminal chart settings.
type TUI struct {
	PxPerCell  float64 `yaml:"px_per_cell"` // chart pixels drawn by one terminal column
	LabelWidth int     `yaml:"label_width"` // width of the task name column
}

// Render holds SVG export settings.
type Render struct {
	BarColor      string `yaml:"bar_color"`
	CriticalColor string `yaml:"critical_color"`
	GroupColor    string `yaml:"group_color"`
	BaselineColor string `yaml:"baseline_color,omitempty"` // derived from bar_color when empty
	FontFamily    string `yaml:"font_family"`
}

const dateLayout = "2006-01-02"

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the starter config written by init.
func DefaultConfig() *Config {
	opts := gantt.DefaultOptions()
	return &Config{
		Version: 1,
		Chart: Chart{
			TimeScale:       string(opts.Scale),
			RowHeightPx:     opts.RowHeight,
			DatePaddingDays: opts.PaddingDays,
			AllowDrag:       opts.AllowDrag,
			AllowResize:     opts.AllowResize,
			ShowBaseline:    opts.ShowBaseline,
		},
		TUI: TUI{
			PxPerCell:  8,
			LabelWidth: 24,
		},
		Render: Render{
			BarColor:      palette.Fallback,
			CriticalColor: "#e5484d",
			GroupColor:    "#5b6473",
			FontFamily:    "Arial, sans-serif",
		},
	}
}

func (c *Config) validate() error {
	ch := c.Chart
	if !gantt.Scale(ch.TimeScale).Valid() {
		return fmt.Errorf("chart: time_scale must be day, week or month, got %q", ch.TimeScale)
	}
	if ch.RowHeightPx <= 0 {
		return fmt.Errorf("chart: row_height_px must be positive, got %v", ch.RowHeightPx)
	}
	if ch.DatePaddingDays < 0 {
		return fmt.Errorf("chart: date_padding_days must not be negative, got %d", ch.DatePaddingDays)
	}
	if ch.FirstDayOfWeek != 0 && ch.FirstDayOfWeek != 1 {
		return fmt.Errorf("chart: first_day_of_week must be 0 or 1, got %d", ch.FirstDayOfWeek)
	}
	if ch.CustomDateRange != nil {
		if _, err := ch.CustomDateRange.Range(); err != nil {
			return fmt.Errorf("chart: custom_date_range: %w", err)
		}
	}

	if c.TUI.PxPerCell <= 0 {
		return fmt.Errorf("tui: px_per_cell must be positive, got %v", c.TUI.PxPerCell)
	}
	if c.TUI.LabelWidth < 4 {
		return fmt.Errorf("tui: label_width must be at least 4, got %d", c.TUI.LabelWidth)
	}

	colors := map[string]string{
		"bar_color":      c.Render.BarColor,
		"critical_color": c.Render.CriticalColor,
		"group_color":    c.Render.GroupColor,
		"baseline_color": c.Render.BaselineColor,
	}
	for key, v := range colors {
		if v != "" && !palette.Valid(v) {
			return fmt.Errorf("render: %s must be a hex color, got %q", key, v)
		}
	}
	return nil
}

// Range parses the span. End must not precede start.
func (d DateRange) Range() (gantt.Range, error) {
	start, err := time.ParseInLocation(dateLayout, d.Start, time.Local)
	if err != nil {
		return gantt.Range{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, d.End, time.Local)
	if err != nil {
		return gantt.Range{}, fmt.Errorf("end: %w", err)
	}
	if end.Before(start) {
		return gantt.Range{}, fmt.Errorf("end %s is before start %s", d.End, d.Start)
	}
	return gantt.Range{Start: start, End: end}, nil
}

// Options converts the chart section to core options.
func (c *Config) Options() gantt.Options {
	ch := c.Chart
	opts := gantt.Options{
		Scale:          gantt.Scale(ch.TimeScale),
		RowHeight:      ch.RowHeightPx,
		PaddingDays:    ch.DatePaddingDays,
		AllowDrag:      ch.AllowDrag,
		AllowResize:    ch.AllowResize,
		FirstDayOfWeek: time.Weekday(ch.FirstDayOfWeek),
		ShowBaseline:   ch.ShowBaseline,
	}
	if ch.CustomDateRange != nil {
		if r, err := ch.CustomDateRange.Range(); err == nil {
			opts.CustomRange = &r
		}
	}
	return opts
}

// Theme resolves the render colors.
func (c *Config) Theme() palette.Theme {
	r := c.Render
	return palette.NewTheme(r.BarColor, r.CriticalColor, r.GroupColor, r.BaselineColor)
}
