// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server's runtime settings.
type Config struct {
	// Addr is the listen address for the HTTP/websocket server.
	Addr string `env:"BANKROLL_ADDR" envDefault:":5174"`

	// PublicURL is the externally reachable base URL embedded in QR
	// onboarding links.
	PublicURL string `env:"BANKROLL_PUBLIC_URL" envDefault:"http://localhost:5174"`

	// AdminName is the privileged display name. A player joining under
	// this name is the room's administrator.
	AdminName string `env:"BANKROLL_ADMIN_NAME" envDefault:"管理员"`

	// StartingStake is the balance granted to every new non-administrator
	// player, and the balance restored by a reset.
	StartingStake int64 `env:"BANKROLL_STARTING_STAKE" envDefault:"15000"`

	// ReapInterval is how often the reaper sweeps for empty rooms.
	ReapInterval time.Duration `env:"BANKROLL_REAP_INTERVAL" envDefault:"60s"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
