package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imkarma/gantt/internal/store"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log [task-id]",
	Short: "Show the event log, for one task or the whole project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 50, "Number of recent project events")
}

func runLog(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var events []store.Event
	if len(args) == 1 {
		if _, err := s.GetTask(args[0]); err != nil {
			return err
		}
		events, err = s.GetEvents(args[0])
	} else {
		events, err = s.RecentEvents(logLimit)
	}
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("No events.")
		return nil
	}

	for _, e := range events {
		src := ""
		if e.Source != "" {
			src = fmt.Sprintf("[%s] ", e.Source)
		}
		fmt.Printf("  %s  %s%s %-8s %s\n",
			dim(e.Timestamp.Local().Format("2006-01-02 15:04:05")), dim(src), eventColor(e.Type), e.TaskID, e.Content)
	}
	return nil
}

func eventColor(eventType string) string {
	padded := fmt.Sprintf("%-10s", eventType)
	switch eventType {
	case store.EventMoved, store.EventResized:
		return yellow(padded)
	case store.EventBaseline, store.EventImported:
		return boldCyan(padded)
	case store.EventCreated, store.EventProgress:
		return green(padded)
	case store.EventUnlinked:
		return red(padded)
	default:
		return padded
	}
}
