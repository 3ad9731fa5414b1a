package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/imkarma/gantt/internal/calendar"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/project"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Quick schedule overview",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.ListTasks()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Printf("No tasks. Run: %s\n", cyan("gantt task add \"name\" --start YYYY-MM-DD"))
		return nil
	}

	name := s.ProjectName()
	if name == "" {
		name = "gantt"
	}
	today := calendar.StartOfDay(time.Now())

	counts := map[gantt.Kind]int{}
	var late, overdue []gantt.Task
	var progress float64
	var work int
	for _, t := range tasks {
		counts[t.Kind]++
		if t.IsGroup() || t.IsMilestone() {
			continue
		}
		progress += t.Progress
		work++
		if t.HasBaseline() && calendar.DiffDays(t.End, t.BaselineEnd) > 0 {
			late = append(late, t)
		}
		if t.End.Before(today) && t.Progress < 100 {
			overdue = append(overdue, t)
		}
	}

	fmt.Printf("%s\n", bold(name))
	if r, ok := calendar.DeriveRange(tasks, 0); ok {
		fmt.Printf("  %-12s %s (%d days)\n", "span:", dates(r.Start, r.End), calendar.DaysInRange(r))
	}
	fmt.Printf("  %-12s %d\n", "tasks:", counts[gantt.KindTask])
	fmt.Printf("  %-12s %d\n", "groups:", counts[gantt.KindGroup])
	fmt.Printf("  %-12s %d\n", "milestones:", counts[gantt.KindMilestone])
	if work > 0 {
		fmt.Printf("  %-12s %s\n", "progress:", green(fmt.Sprintf("%.0f%%", progress/float64(work))))
	}

	if len(late) > 0 {
		fmt.Printf("\n%s\n", boldYellow("Behind baseline:"))
		for _, t := range late {
			fmt.Printf("  %s %s  %s\n", cyan(fmt.Sprintf("%-8s", t.ID)), slip(calendar.DiffDays(t.End, t.BaselineEnd)), t.Name)
		}
	}
	if len(overdue) > 0 {
		fmt.Printf("\n%s\n", boldRed("Overdue:"))
		for _, t := range overdue {
			fmt.Printf("  %s %3.0f%%  %s (due %s)\n", cyan(fmt.Sprintf("%-8s", t.ID)), t.Progress, t.Name, project.FormatDate(t.End))
		}
	}
	return nil
}
