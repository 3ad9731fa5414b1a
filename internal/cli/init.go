package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imkarma/gantt/internal/config"
	"github.com/imkarma/gantt/internal/project"
)

var (
	initName string
	initFrom string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gantt in the current directory",
	Long:  "Creates a .gantt/ directory with default config and database, optionally seeded from a project file.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initName, "name", "n", "", "Project name")
	initCmd.Flags().StringVar(&initFrom, "from", "", "Seed the project from a YAML or JSON file")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check if already initialized.
	if _, err := os.Stat(ganttDirName); err == nil {
		return fmt.Errorf("gantt already initialized in this directory (%s/ exists)", ganttDirName)
	}

	// Parse the seed before touching the filesystem.
	var seed *project.Project
	if initFrom != "" {
		p, err := project.Load(initFrom)
		if err != nil {
			return err
		}
		seed = p
	}

	if err := os.MkdirAll(ganttDirName, 0755); err != nil {
		return fmt.Errorf("create %s: %w", ganttDirName, err)
	}

	cfg := config.DefaultConfig()
	if err := config.Save(ganttPath("config.yaml"), cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Create database by opening store (migration runs automatically).
	s, err := openStore(ganttPath("gantt.db"))
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer s.Close()

	name := initName
	if seed != nil {
		if name == "" {
			name = seed.Name
		}
		if err := s.Replace(name, seed.Tasks, seed.Links, source); err != nil {
			return err
		}
	} else if name != "" {
		if err := s.SetProjectName(name); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized gantt in %s/\n", ganttDirName)
	if seed != nil {
		fmt.Printf("Imported %d tasks and %d links from %s\n", len(seed.Tasks), len(seed.Links), initFrom)
	}
	fmt.Println("")
	fmt.Println("Next steps:")
	fmt.Println("  1. Run: gantt task add \"Design\" --start 2024-01-08 --end 2024-01-12")
	fmt.Println("  2. Run: gantt ui")
	fmt.Println("  3. Run: gantt render -o chart.svg")

	return nil
}
