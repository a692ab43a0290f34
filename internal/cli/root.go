// Package cli implements the ghboards command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/robby/ghboards/internal/auth"
	"github.com/robby/ghboards/internal/config"
	"github.com/robby/ghboards/internal/gh"
	"github.com/robby/ghboards/internal/store"
	"github.com/robby/ghboards/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ghboards",
	Short: "Summaries of pinned GitHub Projects v2 boards",
	Long: `ghboards fetches GitHub Projects v2 boards, classifies item status and
summarizes what is pending and what is assigned to you.

Pin the boards you care about, then view them from the terminal, the
interactive dashboard or the JSON API served by 'ghboards serve'.

Authentication:
  1. --token flag or GHBOARDS_GITHUB_TOKEN
  2. GitHub CLI: Run 'gh auth login'
  3. Environment variable: Set GITHUB_TOKEN

Example:
  ghboards pins add https://github.com/orgs/acme/projects/3
  ghboards summary`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate(version.Info() + "\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .ghboards.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().String("token", "", "GitHub access token")
	rootCmd.PersistentFlags().String("store-driver", "", "pin store driver: file or sqlite")
	rootCmd.PersistentFlags().String("store-path", "", "pin store location")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("github.token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store-driver"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store-path"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ghboards")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger returns a component logger on stderr, or a discarding one
// unless enabled.
func newLogger(prefix string, enabled bool) *log.Logger {
	if !enabled {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "["+prefix+"] ", log.LstdFlags)
}

// clientOptions builds the GitHub client options shared by every command.
// With logging off the client stays silent even under --verbose.
func clientOptions(cfg *config.Config, logging bool) []gh.Option {
	verbose := logging && cfg.Verbose
	return []gh.Option{
		gh.WithEndpoint(cfg.GitHub.Endpoint),
		gh.WithUserAgent(cfg.GitHub.UserAgent),
		gh.WithLogger(newLogger("gh", verbose), verbose),
	}
}

// newClient resolves a token and creates an authenticated GitHub client.
func newClient(cfg *config.Config, logging bool) (*gh.Client, error) {
	providers := []auth.TokenProvider{&auth.GhCliProvider{}, &auth.EnvProvider{}}
	if cfg.GitHub.Token != "" {
		providers = append([]auth.TokenProvider{&auth.StaticProvider{Token: cfg.GitHub.Token}}, providers...)
	}

	token, err := auth.FirstToken(providers...)
	if err != nil {
		return nil, err
	}

	return gh.New(token, clientOptions(cfg, logging)...), nil
}

// openStore opens the configured pin store.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.Path,
		store.WithMigrationLogger(newLogger("store", cfg.Verbose)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pin store: %w", err)
	}
	return s, nil
}

// session bundles what commands acting on the viewer's pins need.
type session struct {
	cfg    *config.Config
	client *gh.Client
	pins   *store.Store
	login  string
}

// openSession loads config, authenticates, resolves the viewer and opens
// the pin store. clientLogging controls the GitHub client's verbose log.
// Callers must Close the session.
func openSession(ctx context.Context, clientLogging bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := newClient(cfg, clientLogging)
	if err != nil {
		return nil, err
	}

	login, err := client.Viewer(ctx)
	if err != nil {
		return nil, err
	}

	pins, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, client: client, pins: pins, login: login}, nil
}

func (s *session) Close() error {
	return s.pins.Close()
}
