package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline [id...]",
	Short: "Capture the current schedule as the baseline",
	Long:  "Copies the current dates into the baseline of the given tasks, or of every task when none are named.",
	RunE:  runBaseline,
}

func runBaseline(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.CaptureBaseline(source, args...)
	if err != nil {
		return err
	}
	fmt.Printf("Captured baseline for %d task(s)\n", n)
	return nil
}
