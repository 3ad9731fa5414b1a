package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imkarma/gantt/internal/project"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the project to a YAML or JSON file",
	Long:  "Writes every task and link. Files ending in .json are written as JSON, anything else as YAML.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.ListTasks()
	if err != nil {
		return err
	}
	links, err := s.ListLinks()
	if err != nil {
		return err
	}

	p := &project.Project{Name: s.ProjectName(), Tasks: tasks, Links: links}
	if err := project.Save(args[0], p); err != nil {
		return err
	}
	fmt.Printf("Exported %d tasks and %d links to %s\n", len(tasks), len(links), args[0])
	return nil
}
