package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/imkarma/gantt/internal/calendar"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/hierarchy"
	"github.com/imkarma/gantt/internal/project"
)

var (
	taskID       string
	taskStart    string
	taskEnd      string
	taskKind     string
	taskParent   string
	taskColor    string
	taskProgress float64
	taskCritical bool
	taskDisabled bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create or manage tasks",
	Long:  "Create new tasks or reschedule existing ones.",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a task, group or milestone",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in chart order",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskMoveCmd = &cobra.Command{
	Use:   "move [id] [days]",
	Short: "Shift a task by whole days, keeping its duration",
	Long:  "Shifts a task by whole days. Put negative counts after --, as in: gantt task move b -- -2",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskMove,
}

var taskSetCmd = &cobra.Command{
	Use:   "set [id]",
	Short: "Set a task's start and/or end date",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskSet,
}

var taskProgressCmd = &cobra.Command{
	Use:   "progress [id] [percent]",
	Short: "Set completion from 0 to 100",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskProgress,
}

var taskRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"remove"},
	Short:   "Remove a task and its links; children move up a level",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

func init() {
	taskAddCmd.Flags().StringVar(&taskID, "id", "", "Task ID (generated when empty)")
	taskAddCmd.Flags().StringVarP(&taskStart, "start", "s", "", "Start date, YYYY-MM-DD")
	taskAddCmd.Flags().StringVarP(&taskEnd, "end", "e", "", "End date, YYYY-MM-DD (defaults to start for milestones, start+1 day otherwise)")
	taskAddCmd.Flags().StringVarP(&taskKind, "kind", "k", "task", "Kind: task, group, milestone")
	taskAddCmd.Flags().StringVarP(&taskParent, "parent", "p", "", "Parent group ID")
	taskAddCmd.Flags().StringVar(&taskColor, "color", "", "Bar color override, #rrggbb")
	taskAddCmd.Flags().Float64Var(&taskProgress, "progress", 0, "Initial progress, 0-100")
	taskAddCmd.Flags().BoolVar(&taskCritical, "critical", false, "Mark as critical")
	taskAddCmd.Flags().BoolVar(&taskDisabled, "disabled", false, "Lock the task against dragging")
	taskAddCmd.MarkFlagRequired("start")

	taskSetCmd.Flags().StringVarP(&taskStart, "start", "s", "", "New start date")
	taskSetCmd.Flags().StringVarP(&taskEnd, "end", "e", "", "New end date")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskSetCmd)
	taskCmd.AddCommand(taskProgressCmd)
	taskCmd.AddCommand(taskRmCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	start, err := project.ParseDate(taskStart)
	if err != nil {
		return err
	}
	kind := gantt.Kind(taskKind)
	end := calendar.AddDays(start, 1)
	if kind == gantt.KindMilestone {
		end = start
	}
	if taskEnd != "" {
		if end, err = project.ParseDate(taskEnd); err != nil {
			return err
		}
	}

	id := taskID
	if id == "" {
		id = project.NewID()
	}
	task, err := s.CreateTask(gantt.Task{
		ID:       id,
		Name:     strings.Join(args, " "),
		Kind:     kind,
		Start:    start,
		End:      end,
		Progress: taskProgress,
		ParentID: taskParent,
		Critical: taskCritical,
		Disabled: taskDisabled,
		Color:    taskColor,
	}, source)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s %s: %s [%s]\n", task.Kind, boldCyan(task.ID), task.Name, dates(task.Start, task.End))
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
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
		fmt.Println("No tasks found.")
		return nil
	}

	for _, e := range hierarchy.Flatten(tasks, nil) {
		t := e.Task
		name := strings.Repeat("  ", e.Level) + t.Name
		switch {
		case t.IsGroup():
			name = bold(name)
		case t.Disabled:
			name = dim(name)
		}
		extra := ""
		if !t.IsGroup() && !t.IsMilestone() {
			extra = fmt.Sprintf(" %3.0f%%", t.Progress)
		}
		if t.HasBaseline() {
			extra += " " + slip(calendar.DiffDays(t.End, t.BaselineEnd))
		}
		if t.Critical {
			extra += " " + boldRed("critical")
		}
		fmt.Printf("%s  %-9s %s  %s%s\n", cyan(fmt.Sprintf("%-8s", t.ID)), t.Kind, dates(t.Start, t.End), name, extra)
	}
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.GetTask(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", bold(kindLabel(task.Kind)), boldCyan(task.ID))
	fmt.Printf("  Name:     %s\n", task.Name)
	fmt.Printf("  Dates:    %s (%d days)\n", dates(task.Start, task.End), calendar.DiffDays(task.End, task.Start))
	if !task.IsGroup() && !task.IsMilestone() {
		fmt.Printf("  Progress: %.0f%%\n", task.Progress)
	}
	if task.HasBaseline() {
		fmt.Printf("  Baseline: %s %s\n", dates(task.BaselineStart, task.BaselineEnd), slip(calendar.DiffDays(task.End, task.BaselineEnd)))
	}
	if task.ParentID != "" {
		fmt.Printf("  Parent:   %s\n", task.ParentID)
	}
	if task.Color != "" {
		fmt.Printf("  Color:    %s\n", task.Color)
	}
	if task.Critical {
		fmt.Printf("  Critical: %s\n", boldRed("yes"))
	}
	if task.Disabled {
		fmt.Printf("  Locked:   %s\n", yellow("yes"))
	}

	links, err := s.ListLinks()
	if err != nil {
		return err
	}
	for _, l := range links {
		switch task.ID {
		case l.To:
			fmt.Printf("  After:    %s (%s)\n", l.From, l.Type)
		case l.From:
			fmt.Printf("  Before:   %s (%s)\n", l.To, l.Type)
		}
	}

	events, err := s.GetEvents(task.ID)
	if err != nil {
		return err
	}
	if len(events) > 0 {
		fmt.Println("\n  Events:")
		for _, e := range events {
			fmt.Printf("    %s %s: %s\n", dim(e.Timestamp.Local().Format("2006-01-02 15:04")), e.Type, e.Content)
		}
	}
	return nil
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	days, err := strconv.Atoi(strings.TrimPrefix(args[1], "+"))
	if err != nil {
		return fmt.Errorf("invalid day count: %s", args[1])
	}
	task, err := s.GetTask(args[0])
	if err != nil {
		return err
	}
	if task.Disabled {
		return fmt.Errorf("task %s is locked", task.ID)
	}

	start, end := calendar.AddDays(task.Start, days), calendar.AddDays(task.End, days)
	if err := s.UpdateDates(task.ID, start, end, false, source); err != nil {
		return err
	}
	fmt.Printf("Moved %s to %s\n", boldCyan(task.ID), dates(start, end))
	return nil
}

func runTaskSet(cmd *cobra.Command, args []string) error {
	if taskStart == "" && taskEnd == "" {
		return fmt.Errorf("nothing to change: pass --start and/or --end")
	}

	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.GetTask(args[0])
	if err != nil {
		return err
	}

	start, end := task.Start, task.End
	if taskStart != "" {
		if start, err = project.ParseDate(taskStart); err != nil {
			return err
		}
	}
	if taskEnd != "" {
		if end, err = project.ParseDate(taskEnd); err != nil {
			return err
		}
	}
	if task.IsMilestone() {
		end = start
	}

	// Changing exactly one edge is a resize.
	resize := (taskStart == "") != (taskEnd == "")
	if err := s.UpdateDates(task.ID, start, end, resize, source); err != nil {
		return err
	}
	fmt.Printf("Rescheduled %s to %s\n", boldCyan(task.ID), dates(start, end))
	return nil
}

func runTaskProgress(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	pct, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
	if err != nil {
		return fmt.Errorf("invalid progress: %s", args[1])
	}
	if err := s.SetProgress(args[0], pct, source); err != nil {
		return err
	}
	fmt.Printf("Task %s at %s%%\n", boldCyan(args[0]), strconv.FormatFloat(max(0, min(100, pct)), 'f', -1, 64))
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteTask(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed task %s\n", boldCyan(args[0]))
	return nil
}

// dates formats a schedule as "start → end".
func dates(start, end time.Time) string {
	return project.FormatDate(start) + " → " + project.FormatDate(end)
}

func kindLabel(k gantt.Kind) string {
	switch k {
	case gantt.KindGroup:
		return "Group"
	case gantt.KindMilestone:
		return "Milestone"
	default:
		return "Task"
	}
}
