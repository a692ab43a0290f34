package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/truncate"
	"github.com/robby/ghboards/internal/boards"
	"github.com/robby/ghboards/internal/domain"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize all pinned boards",
	Long: `Fetch every pinned board concurrently and print one row per board.

A board that cannot be fetched is still listed, with the reason.

Examples:
  ghboards summary
  ghboards summary --json`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().Bool("json", false, "Print the summaries as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	pins, err := s.pins.List(ctx, s.login)
	if err != nil {
		return err
	}

	service := boards.NewService(s.cfg.GitHub.Concurrency, newLogger("boards", s.cfg.Verbose))
	cards := service.Summaries(ctx, s.client, pins)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(map[string]any{"boards": cards})
	}

	if len(cards) == 0 {
		fmt.Println("No pinned boards. Add one with 'ghboards pins add <url>'.")
		return nil
	}

	fmt.Println(summaryTable(cards))
	return nil
}

// summaryTable renders one row per card.
func summaryTable(cards []domain.BoardCard) string {
	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, summaryRow(card))
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("BOARD", "TOTAL", "PENDING", "MINE", "DONE", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if row >= 0 && row < len(cards) && !cards[row].HasAccess {
				return style.Inherit(errorStyle)
			}
			return style
		}).
		String()
}

func summaryRow(card domain.BoardCard) []string {
	title := truncate.StringWithTail(card.Title, 40, "…")
	if !card.HasAccess {
		reason := "unavailable"
		if card.Error != nil {
			reason = *card.Error
		}
		return []string{title, "-", "-", "-", "-", truncate.StringWithTail(reason, 40, "…")}
	}

	updated := "-"
	if card.LastUpdatedAt != nil {
		updated = card.LastUpdatedAt.Format("2006-01-02")
	}

	return []string{
		title,
		strconv.Itoa(card.Stats.Total),
		strconv.Itoa(card.Stats.Pending),
		strconv.Itoa(card.Stats.AssignedToViewer),
		strconv.Itoa(card.Stats.Done),
		updated,
	}
}
