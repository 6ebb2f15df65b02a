// Package demo shows stepsql used as a library: migrations embedded in the
// binary and applied at startup. The migration set is the canonical users
// workload, a create followed by guarded profile columns.
package demo

import (
	"context"
	"database/sql"
	"embed"

	"github.com/stepsql/stepsql/migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies all embedded migrations to the database. Safe to call on
// every startup.
func Migrate(ctx context.Context, db *sql.DB, dialect string) ([]string, error) {
	scripts, err := migrate.LoadFS(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.Up(ctx, db, dialect, scripts, nil)
}
