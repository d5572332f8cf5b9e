// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime knob of the games server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"GAMES_ADDR" envDefault:":8080"`

	// DBDriver selects the game document store: "sqlite" or "postgres".
	DBDriver string `env:"GAMES_DB_DRIVER" envDefault:"sqlite"`

	// SQLitePath is the sqlite database file.
	SQLitePath string `env:"GAMES_SQLITE_PATH" envDefault:"data/games.db"`

	// PostgresDSN is used when DBDriver is "postgres".
	PostgresDSN string `env:"GAMES_POSTGRES_DSN"`

	// TemplateDir optionally overlays extra template collections on the
	// built-in defaults.
	TemplateDir string `env:"GAMES_TEMPLATE_DIR"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
	if cfg.DBDriver == "postgres" && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("GAMES_POSTGRES_DSN required for postgres driver")
	}

	return cfg, nil
}
