// Package config loads ghboards configuration from file, environment and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the full ghboards configuration
type Config struct {
	Server  ServerConfig `mapstructure:"server"`
	GitHub  GitHubConfig `mapstructure:"github"`
	Store   StoreConfig  `mapstructure:"store"`
	Verbose bool         `mapstructure:"verbose"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
}

// GitHubConfig contains GitHub API settings
type GitHubConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	UserAgent   string `mapstructure:"user_agent"`
	Token       string `mapstructure:"token"` // Used by the CLI; the server takes tokens per request
	Concurrency int    `mapstructure:"concurrency"`
}

// StoreConfig selects where pinned boards are persisted
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "file" or "sqlite"
	Path   string `mapstructure:"path"`
}

// keys lists every configuration key so environment variables resolve
// even when no config file mentions them.
var keys = []string{
	"server.addr",
	"server.read_timeout",
	"server.write_timeout",
	"github.endpoint",
	"github.user_agent",
	"github.token",
	"github.concurrency",
	"store.driver",
	"store.path",
	"verbose",
}

// BindEnv maps GHBOARDS_SERVER_ADDR style variables onto the config keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("GHBOARDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// Load loads configuration from the given viper instance
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	if cfg.Server.ReadTimeout == "" {
		cfg.Server.ReadTimeout = "10s"
	}

	if cfg.Server.WriteTimeout == "" {
		cfg.Server.WriteTimeout = "60s"
	}

	if cfg.GitHub.Endpoint == "" {
		cfg.GitHub.Endpoint = "https://api.github.com/graphql"
	}

	if cfg.GitHub.UserAgent == "" {
		cfg.GitHub.UserAgent = "ghboards"
	}

	if cfg.GitHub.Concurrency == 0 {
		cfg.GitHub.Concurrency = 4
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "file"
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Driver)
	}
}

// DefaultStorePath returns the per-user location of the pin store for driver.
func DefaultStorePath(driver string) string {
	name := "pins.json"
	if driver == "sqlite" {
		name = "pins.db"
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".ghboards", name)
	}
	return filepath.Join(dir, "ghboards", name)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validDrivers := map[string]bool{"file": true, "sqlite": true}
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid store driver: %s (must be file or sqlite)", c.Store.Driver)
	}

	if c.GitHub.Concurrency < 1 {
		return fmt.Errorf("github concurrency must be positive, got %d", c.GitHub.Concurrency)
	}

	if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("invalid server read_timeout: %w", err)
	}

	if _, err := time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("invalid server write_timeout: %w", err)
	}

	return nil
}

// ReadTimeout returns the parsed server read timeout
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// WriteTimeout returns the parsed server write timeout
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}
