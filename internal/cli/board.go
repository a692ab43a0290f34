package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/robby/ghboards/internal/boards"
	"github.com/robby/ghboards/internal/domain"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board <url | owner number>",
	Short: "Show one board with its items",
	Long: `Fetch a project board and print its stats and items.

Examples:
  ghboards board https://github.com/orgs/acme/projects/3
  ghboards board acme 3 --pending
  ghboards board octocat 1 --mine --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().Bool("json", false, "Print the board as JSON")
	boardCmd.Flags().Bool("pending", false, "Only show pending items")
	boardCmd.Flags().Bool("mine", false, "Only show items assigned to you")
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// parseBoardArgs accepts either a board URL or an owner and a number.
func parseBoardArgs(args []string) (string, int, error) {
	if len(args) == 1 {
		project, err := domain.ParseProjectURL(args[0])
		if err != nil {
			return "", 0, err
		}
		return project.Owner, project.Number, nil
	}

	owner := strings.TrimSpace(args[0])
	number, err := strconv.Atoi(args[1])
	if owner == "" || err != nil || number <= 0 {
		return "", 0, fmt.Errorf("expected an owner and a positive project number, got %q %q", args[0], args[1])
	}
	return owner, number, nil
}

func runBoard(cmd *cobra.Command, args []string) error {
	owner, number, err := parseBoardArgs(args)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	pendingOnly, _ := cmd.Flags().GetBool("pending")
	mineOnly, _ := cmd.Flags().GetBool("mine")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newClient(cfg, true)
	if err != nil {
		return err
	}

	service := boards.NewService(cfg.GitHub.Concurrency, newLogger("boards", cfg.Verbose))
	board, err := service.Board(context.Background(), client, owner, number)
	if err != nil {
		return err
	}

	board.Items = filterItems(board.Items, pendingOnly, mineOnly)

	if jsonOutput {
		return writeJSON(board)
	}

	printBoard(board)
	return nil
}

// filterItems keeps the items matching the pending and assigned toggles.
// Stats are left as computed over the whole board.
func filterItems(items []domain.BoardItem, pendingOnly, mineOnly bool) []domain.BoardItem {
	filtered := make([]domain.BoardItem, 0, len(items))
	for _, item := range items {
		if pendingOnly && !item.IsPending {
			continue
		}
		if mineOnly && !item.IsAssignedToViewer {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func printBoard(board *domain.Board) {
	fmt.Println(headingStyle.Render(fmt.Sprintf("%s/%d - %s", board.Owner, board.Number, board.Title)))
	fmt.Println(dimStyle.Render(board.URL))
	fmt.Printf("%d total, %d pending, %d assigned to you, %d done\n\n",
		board.Stats.Total, board.Stats.Pending, board.Stats.AssignedToViewer, board.Stats.Done)

	if len(board.Items) == 0 {
		fmt.Println("No items.")
		return
	}

	for _, item := range board.Items {
		marker := " "
		if item.IsPending {
			marker = pendingStyle.Render("●")
		}

		style := dimStyle
		if item.StatusType == domain.StatusDone {
			style = doneStyle
		} else if item.IsPending {
			style = pendingStyle
		}

		status := truncate.StringWithTail(item.Status, 14, "…")
		status += strings.Repeat(" ", max(0, 14-lipgloss.Width(status)))
		line := marker + " " + style.Render(status) + " " + truncate.StringWithTail(item.Title, 60, "…")

		var extra []string
		if item.RepoFullName != nil {
			extra = append(extra, *item.RepoFullName)
		}
		for _, a := range item.Assignees {
			extra = append(extra, "@"+a.Login)
		}
		if len(extra) > 0 {
			line += "  " + dimStyle.Render(strings.Join(extra, " "))
		}
		fmt.Println(line)
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
