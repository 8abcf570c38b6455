package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"kiosk_commerce/internal/config"
	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/infrastructure/commerce"
	"kiosk_commerce/internal/infrastructure/qrcode"
	"kiosk_commerce/internal/transport/cli"
	"kiosk_commerce/pkg/contextx"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, err := cli.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}

		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// логи в stderr, stdout только под вывод команды
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.App.LogLevel,
		TimeFormat: time.TimeOnly,
	}))
	ctx = contextx.WithLogger(ctx, log)

	// Fall back to environment variables
	if cmd.BaseURL != "" {
		cfg.Commerce.BaseURL = cmd.BaseURL
	}
	if cmd.Timeout > 0 {
		cfg.Commerce.Timeout = cmd.Timeout
	}
	if cmd.Interval == 0 {
		cmd.Interval = cfg.Poll.Interval
	}

	renderer, err := qrcode.NewRenderer().WithLevel(cfg.Commerce.QRLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	runner := cli.NewRunner(commerce.New(cfg.Commerce, cfg.App.LogFieldMaxLen), os.Stdout).
		WithRenderer(renderer).
		WithMobileBaseURL(cfg.Commerce.MobileBaseURL).
		WithInterval(cmd.Interval)

	if err = runner.Run(ctx, cmd); err != nil {
		log.Debug("command failed", slog.String("command", cmd.Name), slog.Any("error", err))
		fmt.Fprintln(os.Stderr, domain.Message(err, err.Error()))

		return 1
	}

	return 0
}
