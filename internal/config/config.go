// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server and CLI settings.
type Config struct {
	HTTPAddr      string        `env:"ODDS_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string        `env:"ODDS_GRPC_ADDR" envDefault:":8081"`
	ConfigDir     string        `env:"ODDS_CONFIG_DIR" envDefault:"config"`
	WatchInterval time.Duration `env:"ODDS_WATCH_INTERVAL" envDefault:"2s"`
	// MaxStates caps the live states of one odds model.
	MaxStates int `env:"ODDS_MAX_STATES" envDefault:"65536"`
	// MaxDraws caps the draw budget a request may ask for.
	MaxDraws       int           `env:"ODDS_MAX_DRAWS" envDefault:"1000"`
	RequestTimeout time.Duration `env:"ODDS_REQUEST_TIMEOUT" envDefault:"10s"`
	LogLevel       string        `env:"ODDS_LOG_LEVEL" envDefault:"info"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WatchInterval <= 0 {
		return Config{}, errors.New("parse env: ODDS_WATCH_INTERVAL must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, errors.New("parse env: ODDS_REQUEST_TIMEOUT must be positive")
	}
	return cfg, nil
}
