package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/project"
)

var (
	linkType string
	linkLag  int
	linkID   string
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage dependencies between tasks",
}

var linkAddCmd = &cobra.Command{
	Use:   "add [from] [to]",
	Short: "Add a dependency from one task to another",
	Long:  "Adds a dependency. Types: FS finish-to-start (default), SS start-to-start, FF finish-to-finish, SF start-to-finish.",
	Args:  cobra.ExactArgs(2),
	RunE:  runLinkAdd,
}

var linkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dependencies",
	Args:  cobra.NoArgs,
	RunE:  runLinkList,
}

var linkRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"remove"},
	Short:   "Remove a dependency",
	Args:    cobra.ExactArgs(1),
	RunE:    runLinkRm,
}

func init() {
	linkAddCmd.Flags().StringVarP(&linkType, "type", "t", "FS", "Link type: FS, SS, FF, SF")
	linkAddCmd.Flags().IntVar(&linkLag, "lag", 0, "Lag in days (informational)")
	linkAddCmd.Flags().StringVar(&linkID, "id", "", "Link ID (generated when empty)")

	linkCmd.AddCommand(linkAddCmd)
	linkCmd.AddCommand(linkListCmd)
	linkCmd.AddCommand(linkRmCmd)
}

func runLinkAdd(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	id := linkID
	if id == "" {
		id = project.NewID()
	}
	l := gantt.Link{
		ID:      id,
		From:    args[0],
		To:      args[1],
		Type:    project.ParseLinkType(linkType),
		LagDays: linkLag,
	}
	if err := s.AddLink(l, source); err != nil {
		return err
	}
	fmt.Printf("Linked %s %s %s [%s]\n", cyan(l.From), dim("→"), cyan(l.To), l.Type)
	return nil
}

func runLinkList(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	links, err := s.ListLinks()
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("No links found.")
		return nil
	}
	for _, l := range links {
		lag := ""
		if l.LagDays != 0 {
			lag = dim(fmt.Sprintf(" lag %+dd", l.LagDays))
		}
		fmt.Printf("%s  %s  %s %s %s%s\n", dim(fmt.Sprintf("%-8s", l.ID)), l.Type, cyan(l.From), dim("→"), cyan(l.To), lag)
	}
	return nil
}

func runLinkRm(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteLink(args[0], source); err != nil {
		return err
	}
	fmt.Printf("Removed link %s\n", args[0])
	return nil
}
