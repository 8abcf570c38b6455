package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"kiosk_commerce/pkg/application/connectors"
)

// MigrateFromFile executes all SQL queries from the files over a database
// connection.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	return connectors.MigrateFromFile(context.Background(), db, fileNames...)
}

// NewSQLite opens a private in-memory sqlite database migrated with the given
// files. The database is closed with the test.
func NewSQLite(t *testing.T, fileNames ...string) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sqlx.Open: %v", err)
	}

	// Every new connection to :memory: is a new database.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { db.Close() })

	if err = MigrateFromFile(db, fileNames...); err != nil {
		t.Fatalf("MigrateFromFile: %v", err)
	}

	return db
}
