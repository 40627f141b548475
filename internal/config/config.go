// Package config loads runtime settings for the outbreak CLI from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds every OUTBREAK_* setting.
type Config struct {
	// Seed drives every random draw. Zero picks a fresh seed.
	Seed int64 `env:"OUTBREAK_SEED" envDefault:"0"`
	// ScenarioPath is a YAML scenario file. Empty plays the built-in scenario.
	ScenarioPath string `env:"OUTBREAK_SCENARIO"`
	// DBPath is the run ledger. Empty disables recording.
	DBPath string `env:"OUTBREAK_DB" envDefault:"data/outbreak.db"`
	// Resume continues an unfinished run by id, or the latest with "last".
	Resume string `env:"OUTBREAK_RESUME"`
	// MaxTurns bounds a headless game.
	MaxTurns     int    `env:"OUTBREAK_MAX_TURNS" envDefault:"36"`
	Distribution string `env:"OUTBREAK_DISTRIBUTION" envDefault:"negbinom"`
	LogLevel     string `env:"OUTBREAK_LOG_LEVEL" envDefault:"info"`
	// CapacityTrigger is the share of hospital capacity at which the
	// autoplayer starts closing things.
	CapacityTrigger float64 `env:"OUTBREAK_CAPACITY_TRIGGER" envDefault:"0.8"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and checks it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.MaxTurns <= 0 {
		return Config{}, fmt.Errorf("OUTBREAK_MAX_TURNS must be positive, got %d", cfg.MaxTurns)
	}
	if cfg.CapacityTrigger < 0 {
		return Config{}, fmt.Errorf("OUTBREAK_CAPACITY_TRIGGER must not be negative, got %g", cfg.CapacityTrigger)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level returns the configured slog level.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
