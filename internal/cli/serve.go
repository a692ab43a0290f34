package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robby/ghboards/internal/boards"
	"github.com/robby/ghboards/internal/gh"
	"github.com/robby/ghboards/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the boards JSON API",
	Long: `Serve pinned board summaries over HTTP.

Each request authenticates with its own GitHub token:
  Authorization: Bearer <token>

Routes:
  GET  /api/projects                   summaries of the caller's pinned boards
  POST /api/projects                   add or remove a pin
  GET  /api/projects/{owner}/{number}  one board with its items
  GET  /healthz                        liveness

Example:
  ghboards serve --addr :8080 --store-driver sqlite`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pins, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pins.Close()

	factory := gh.NewFactory(clientOptions(cfg, true)...)
	clients := func(token string) server.GitHub {
		return factory.Client(token)
	}

	service := boards.NewService(cfg.GitHub.Concurrency, newLogger("boards", true))
	srv := server.New(clients, pins, service, newLogger("server", true))

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.ReadTimeout(), cfg.WriteTimeout()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
