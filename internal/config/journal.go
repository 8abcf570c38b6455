package config

import "time"

// Journal is the database the observed deal transitions are written to.
// An empty DSN disables the journal.
type Journal struct {
	Driver          string        `env:"JOURNAL_DRIVER" envDefault:"pgx"`
	DSN             string        `env:"JOURNAL_DSN" json:"-"`
	MaxIdleConns    int           `env:"JOURNAL_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"JOURNAL_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"JOURNAL_CONN_MAX_LIFETIME" envDefault:"5m"`
	MigrationsFile  string        `env:"JOURNAL_MIGRATIONS" envDefault:"migrations/0001_deal_transitions.sql"`
}

func (j Journal) Enabled() bool {
	return j.DSN != ""
}
