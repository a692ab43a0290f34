package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects <owner>",
	Short: "List an owner's boards",
	Long: `List the project boards of a user or organization, with the URLs
to pass to 'ghboards pins add'.

Example:
  ghboards projects acme`,
	Args: cobra.ExactArgs(1),
	RunE: runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().Bool("closed", false, "Include closed boards")
}

func runProjects(cmd *cobra.Command, args []string) error {
	includeClosed, _ := cmd.Flags().GetBool("closed")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newClient(cfg, true)
	if err != nil {
		return err
	}

	ownerType, projects, err := client.ListProjects(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Println(headingStyle.Render(fmt.Sprintf("%s (%s)", args[0], ownerType)))

	shown := 0
	for _, p := range projects {
		if p.Closed && !includeClosed {
			continue
		}
		line := fmt.Sprintf("  #%-4d %s", p.Number, p.Title)
		if p.Closed {
			line += dimStyle.Render(" (closed)")
		}
		fmt.Println(line)
		fmt.Println("        " + dimStyle.Render(p.URL))
		shown++
	}

	if shown == 0 {
		fmt.Println("  No boards found.")
	}
	return nil
}
