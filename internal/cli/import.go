package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imkarma/gantt/internal/project"
)

var importName string

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the project with a YAML or JSON file",
	Long:  "Loads a project file and replaces every task and link in one step. A file that fails validation leaves the project untouched. The event log is kept.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importName, "name", "n", "", "Project name (defaults to the file's)")
}

func runImport(cmd *cobra.Command, args []string) error {
	p, err := project.Load(args[0])
	if err != nil {
		return err
	}

	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	name := importName
	if name == "" {
		name = p.Name
	}
	if err := s.Replace(name, p.Tasks, p.Links, "import"); err != nil {
		return err
	}
	fmt.Printf("Imported %d tasks and %d links from %s\n", len(p.Tasks), len(p.Links), args[0])
	return nil
}
