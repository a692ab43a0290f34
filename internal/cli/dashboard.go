package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/ghboards/internal/boards"
	"github.com/robby/ghboards/internal/domain"
	"github.com/robby/ghboards/internal/tui"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive dashboard of pinned boards",
	Long: `Browse pinned boards in the terminal.

Keys:
  enter  open board / item      o  open in browser
  p      pending only           m  assigned to me
  r      refresh                esc back
  q      quit`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// dashboardSource feeds the dashboard from the viewer's pins.
type dashboardSource struct {
	session *session
	service *boards.Service
}

func (d *dashboardSource) Summaries(ctx context.Context) ([]domain.BoardCard, error) {
	pins, err := d.session.pins.List(ctx, d.session.login)
	if err != nil {
		return nil, err
	}
	return d.service.Summaries(ctx, d.session.client, pins), nil
}

func (d *dashboardSource) Board(ctx context.Context, owner string, number int) (*domain.Board, error) {
	return d.service.Board(ctx, d.session.client, owner, number)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Logging would corrupt the alternate screen
	s, err := openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	source := &dashboardSource{
		session: s,
		service: boards.NewService(s.cfg.GitHub.Concurrency, nil),
	}

	app := tui.NewAppModel(source, ctx)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	return nil
}
