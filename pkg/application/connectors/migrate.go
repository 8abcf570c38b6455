package connectors

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
)

// MigrateFromFile executes all SQL queries from the files over a database
// connection. Migrations must be idempotent.
func MigrateFromFile(ctx context.Context, db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		fileBytes, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.ExecContext(ctx, string(fileBytes)); err != nil {
			return fmt.Errorf("db.Exec(%s): %w", fileName, err)
		}
	}

	return nil
}
