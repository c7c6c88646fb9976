package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Warung POS"`
		StoreName string `envconfig:"STORE_NAME" default:"Warung Kita"`
		Port      int    `envconfig:"PORT" default:"8080"`
		DataDir   string `envconfig:"DATA_DIR"`
		SeedFile  string `envconfig:"SEED_FILE"`
	}

	Remote struct {
		// Postgres DSN of the backend row store. Empty means local-only mode.
		DSN string `envconfig:"REMOTE_DSN"`
		// Base URL of the auth service, e.g. https://xyz.example.co/auth/v1.
		AuthURL string `envconfig:"AUTH_URL"`
		AnonKey string `envconfig:"AUTH_ANON_KEY"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

// StatePath returns the path of the local state database inside the data dir.
func (c *Config) StatePath() string {
	return filepath.Join(c.App.DataDir, "pos.db")
}

// RemoteConfigured reports whether a backend row store has been set up.
func (c *Config) RemoteConfigured() bool {
	return c.Remote.DSN != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.App.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home dir: %w", err)
		}

		cfg.App.DataDir = filepath.Join(home, ".warung")
	}

	return &cfg, nil
}
