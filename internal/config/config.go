package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr         string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath           string     `env:"DB_PATH" envDefault:"data/contest.db"`
	LogLevel         slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	CountdownSeconds int        `env:"COUNTDOWN_SECONDS" envDefault:"10"`
	ScoreMax         int        `env:"SCORE_MAX" envDefault:"15"`

	// Bootstrap admin, created on first start when no users exist.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.CountdownSeconds < 1 {
		return nil, fmt.Errorf("COUNTDOWN_SECONDS must be at least 1, got %d", cfg.CountdownSeconds)
	}
	if cfg.ScoreMax < 1 {
		return nil, fmt.Errorf("SCORE_MAX must be at least 1, got %d", cfg.ScoreMax)
	}
	return &cfg, nil
}
