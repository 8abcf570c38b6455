package connectors

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // pure go sqlite driver for single-kiosk installs

	"kiosk_commerce/pkg/contextx"
	"kiosk_commerce/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Database connects to the deal journal. Driver is "pgx" or "sqlite".
type Database struct {
	value           *sqlx.DB
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
}

func (d *Database) Client(ctx context.Context) *sqlx.DB {
	d.init.Do(func() {
		d.value = lo.Must(sqlx.ConnectContext(ctx, d.Driver, d.DSN))

		d.value.SetMaxOpenConns(d.MaxOpenConns)
		d.value.SetMaxIdleConns(d.MaxIdleConns)
		d.value.SetConnMaxLifetime(d.ConnMaxLifetime)

		logger(ctx).Info(
			"database connected",
			slog.String("driver", d.Driver),
			slog.String("database", d.name()),
		)
	})

	return d.value
}

func (d *Database) Close(ctx context.Context) {
	if d.value == nil {
		return
	}

	if err := d.value.Close(); err != nil {
		logger(ctx).Error("databaseClient.Close", logx.Error(err))
	}

	logger(ctx).Info(
		"database disconnected",
		slog.String("driver", d.Driver),
		slog.String("database", d.name()),
	)
}

func (d *Database) name() string {
	u, err := url.Parse(d.DSN)
	if err != nil || u.Path == "" {
		return d.Driver
	}

	return u.Path
}
