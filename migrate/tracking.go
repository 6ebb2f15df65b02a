package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stepsql/stepsql/ddl"
	"github.com/stepsql/stepsql/introspect"
)

// TrackingTable is the name of the table recording applied migrations.
const TrackingTable = "_stepsql_migrations"

// Record is one row of the tracking table.
type Record struct {
	Name      string
	Version   string
	Checksum  string
	AppliedAt time.Time
}

// execer is the subset of *sql.DB and *sql.Tx used by the tracking helpers.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnsureTrackingTable creates the _stepsql_migrations table if it doesn't exist.
// The table uses `name` (full migration name like "20260111170659_create_users")
// as the primary key to allow multiple migrations with the same timestamp but
// different names.
func EnsureTrackingTable(ctx context.Context, db execer, dialect string) error {
	var createSQL string

	switch dialect {
	case ddl.Postgres, ddl.MySQL:
		createSQL = `
			CREATE TABLE IF NOT EXISTS _stepsql_migrations (
				name       VARCHAR(255) PRIMARY KEY,
				version    VARCHAR(14) NOT NULL,
				checksum   VARCHAR(64) NOT NULL,
				applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`
	case ddl.SQLite:
		createSQL = `
			CREATE TABLE IF NOT EXISTS _stepsql_migrations (
				name       TEXT PRIMARY KEY,
				version    TEXT NOT NULL,
				checksum   TEXT NOT NULL,
				applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`
	default:
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}

	_, err := db.ExecContext(ctx, createSQL)
	return err
}

// GetAppliedMigrations returns the applied migration records sorted by
// version then name.
func GetAppliedMigrations(ctx context.Context, q introspect.Querier, dialect string) ([]Record, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT name, version, checksum, applied_at FROM _stepsql_migrations ORDER BY version, name")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if dialect == ddl.SQLite {
			// sqlite stores applied_at as text
			var appliedAt string
			if err := rows.Scan(&rec.Name, &rec.Version, &rec.Checksum, &appliedAt); err != nil {
				return nil, fmt.Errorf("failed to scan migration record: %w", err)
			}
			rec.AppliedAt = parseSQLiteTime(appliedAt)
		} else {
			if err := rows.Scan(&rec.Name, &rec.Version, &rec.Checksum, &rec.AppliedAt); err != nil {
				return nil, fmt.Errorf("failed to scan migration record: %w", err)
			}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migrations: %w", err)
	}

	return records, nil
}

func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// RecordMigrationTx inserts a migration into the tracking table within the
// caller's transaction, so the record commits or rolls back with the
// migration itself.
func RecordMigrationTx(ctx context.Context, tx execer, dialect, version, name, checksum string) error {
	var insertSQL string
	var args []any

	switch dialect {
	case ddl.Postgres:
		insertSQL = `INSERT INTO _stepsql_migrations (name, version, checksum, applied_at) VALUES ($1, $2, $3, $4)`
		args = []any{name, version, checksum, time.Now()}
	case ddl.MySQL:
		insertSQL = `INSERT INTO _stepsql_migrations (name, version, checksum, applied_at) VALUES (?, ?, ?, ?)`
		args = []any{name, version, checksum, time.Now()}
	case ddl.SQLite:
		insertSQL = `INSERT INTO _stepsql_migrations (name, version, checksum, applied_at) VALUES (?, ?, ?, ?)`
		args = []any{name, version, checksum, time.Now().UTC().Format(time.RFC3339)}
	default:
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}

	_, err := tx.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}

	return nil
}

// HasTrackingTable reports whether the tracking table exists, so read-only
// operations like status can avoid creating it.
func HasTrackingTable(ctx context.Context, q introspect.Querier, dialect string) (bool, error) {
	return introspect.HasTable(ctx, q, dialect, TrackingTable)
}
