package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Commerce Commerce
	Poll     Poll
	Server   Server
	Journal  Journal
	Redis    Redis
	Bot      Bot
	Kafka    Kafka
}

type App struct {
	Name     string     `env:"APP_NAME" envDefault:"kiosk"`
	Version  string     `env:"APP_VERSION" envDefault:"dev"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	// LogFieldMaxLen truncates logged HTTP bodies, 0 disables truncation.
	LogFieldMaxLen int `env:"LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type Poll struct {
	Interval time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
	// ViewIdleTTL evicts settled deal views nobody reads, 0 keeps them until closed.
	ViewIdleTTL time.Duration `env:"VIEW_IDLE_TTL" envDefault:"10m"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if config.Poll.Interval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be positive, got %s", config.Poll.Interval)
	}

	if config.Commerce.ScanWindow <= 0 {
		return Config{}, fmt.Errorf("SCAN_WINDOW must be positive, got %s", config.Commerce.ScanWindow)
	}

	return config, nil
}
