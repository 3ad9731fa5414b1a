package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/imkarma/gantt/internal/chart"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/hierarchy"
	"github.com/imkarma/gantt/internal/render"
	"github.com/imkarma/gantt/internal/worker"
)

var (
	renderOut        string
	renderScale      string
	renderTitle      string
	renderNoBaseline bool
	renderExpanded   bool
	renderToday      bool
	renderWorkers    int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the chart as SVG",
	Long:  "Draws the chart with baselines and dependency arrows as a standalone SVG document. Groups collapsed in the interactive chart stay collapsed unless --expand is given.",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "Output file (stdout when empty)")
	renderCmd.Flags().StringVar(&renderScale, "scale", "", "Time scale: day, week, month, or all (config default when empty)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "Document title (project name when empty)")
	renderCmd.Flags().BoolVar(&renderNoBaseline, "no-baseline", false, "Hide baseline bars")
	renderCmd.Flags().BoolVar(&renderExpanded, "expand", false, "Ignore collapsed groups")
	renderCmd.Flags().BoolVar(&renderToday, "today", true, "Mark today when it falls inside the chart")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 3, "Parallel renders with --scale all")
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := cfg.Options()
	scales := []gantt.Scale{opts.Scale}
	switch renderScale {
	case "":
	case "all":
		if renderOut == "" {
			return fmt.Errorf("--scale all needs --output")
		}
		scales = []gantt.Scale{gantt.ScaleDay, gantt.ScaleWeek, gantt.ScaleMonth}
	default:
		if !gantt.Scale(renderScale).Valid() {
			return fmt.Errorf("invalid scale %q (want day, week, month or all)", renderScale)
		}
		scales = []gantt.Scale{gantt.Scale(renderScale)}
	}
	if renderNoBaseline {
		opts.ShowBaseline = false
	}

	tasks, err := s.ListTasks()
	if err != nil {
		return err
	}
	links, err := s.ListLinks()
	if err != nil {
		return err
	}
	collapsed := hierarchy.NewCollapsed()
	if !renderExpanded {
		ids, err := s.ListCollapsed()
		if err != nil {
			return err
		}
		collapsed = hierarchy.NewCollapsed(ids...)
	}

	now := time.Now()
	ro := render.DefaultOptions()
	ro.Theme = cfg.Theme()
	if cfg.Render.FontFamily != "" {
		ro.FontFamily = cfg.Render.FontFamily
	}
	ro.ShowBaseline = opts.ShowBaseline
	ro.Title = renderTitle
	if ro.Title == "" {
		ro.Title = s.ProjectName()
	}
	if renderToday {
		ro.Now = now
	}

	// Each scale is built from the same inputs, which chart.Build never
	// mutates, so the variants can render concurrently.
	var jobs []worker.Job
	for _, scale := range scales {
		o := opts
		o.Scale = scale
		c := chart.Build(tasks, links, o, collapsed, now)
		jobs = append(jobs, worker.Job{
			Name:   string(scale),
			Path:   outputPath(renderOut, scale, len(scales) > 1),
			Render: func(w io.Writer) error { return render.SVG(w, c, ro) },
		})
	}

	if renderOut == "" {
		return jobs[0].Render(os.Stdout)
	}

	failed := 0
	for _, r := range worker.NewPool(renderWorkers).Run(cmd.Context(), jobs) {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s %s\n", red("✗"), r.Error)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s %s %s\n", green("✓"), r.Path, dim(fmt.Sprintf("(%d bytes, %s)", r.Bytes, r.Duration.Round(time.Millisecond))))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d renders failed", failed, len(jobs))
	}
	return nil
}

// outputPath derives one file per scale from out when rendering several,
// chart.svg becoming chart-day.svg and so on.
func outputPath(out string, scale gantt.Scale, multi bool) string {
	if !multi {
		return out
	}
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "-" + string(scale) + ext
}
