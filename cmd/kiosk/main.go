package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"kiosk_commerce/internal/application"
	"kiosk_commerce/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      logLevel(),
		TimeFormat: time.DateTime,
	}))
	slog.SetDefault(log)

	if err := application.Run(ctx, log); err != nil {
		log.Error("application failed", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}

// logLevel читает LOG_LEVEL до загрузки конфига, чтобы логировать и её.
func logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}

	return level
}
