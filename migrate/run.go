package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/stepsql/stepsql/dberr"
	"github.com/stepsql/stepsql/ddl"
	"github.com/stepsql/stepsql/introspect"
)

// ValidateScripts checks every script name and enforces strictly ascending
// order with no duplicates. Called before any statement executes so a bad
// set fails as a whole.
func ValidateScripts(scripts []Script) error {
	var prev string
	for _, sc := range scripts {
		if err := ValidateMigrationName(sc.Name); err != nil {
			return fmt.Errorf("invalid migration: %w", err)
		}
		if sc.Name == prev {
			return fmt.Errorf("duplicate migration name: %q", sc.Name)
		}
		if sc.Name < prev {
			return fmt.Errorf("migrations out of order: %q must come after %q", sc.Name, prev)
		}
		prev = sc.Name
	}
	return nil
}

// Up applies every pending script in version order, recording each in the
// tracking table. It is safe to call on every deployment: already-applied
// scripts are skipped by name and guarded ADD COLUMN statements are skipped
// when the column already exists. Returns the names applied in this run.
func Up(ctx context.Context, db *sql.DB, dialect string, scripts []Script, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := ValidateScripts(scripts); err != nil {
		return nil, err
	}

	if err := EnsureTrackingTable(ctx, db, dialect); err != nil {
		return nil, fmt.Errorf("failed to create tracking table: %w", err)
	}

	records, err := GetAppliedMigrations(ctx, db, dialect)
	if err != nil {
		return nil, err
	}
	appliedSet := make(map[string]bool, len(records))
	for _, rec := range records {
		appliedSet[rec.Name] = true
	}

	var applied []string
	for _, sc := range scripts {
		if appliedSet[sc.Name] {
			logger.Info("migration_skipped", "migration", sc.Name)
			continue
		}
		if err := applyScript(ctx, db, dialect, sc, logger); err != nil {
			return applied, err
		}
		applied = append(applied, sc.Name)
	}

	return applied, nil
}

// Apply applies a single script by name. A script already recorded with a
// matching checksum is a no-op, not an error; a recorded script whose
// checksum differs from the source is rejected. Returns whether the script
// was executed in this call.
func Apply(ctx context.Context, db *sql.DB, dialect string, sc Script, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := ValidateMigrationName(sc.Name); err != nil {
		return false, fmt.Errorf("invalid migration: %w", err)
	}

	if err := EnsureTrackingTable(ctx, db, dialect); err != nil {
		return false, fmt.Errorf("failed to create tracking table: %w", err)
	}

	records, err := GetAppliedMigrations(ctx, db, dialect)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Name != sc.Name {
			continue
		}
		if rec.Checksum != sc.Checksum {
			return false, fmt.Errorf("migration %s already applied with different content (recorded %s, source %s)",
				sc.Name, shortSum(rec.Checksum), shortSum(sc.Checksum))
		}
		logger.Info("migration_skipped", "migration", sc.Name)
		return false, nil
	}

	if err := applyScript(ctx, db, dialect, sc, logger); err != nil {
		return false, err
	}
	return true, nil
}

// applyScript runs one script and its tracking record in a single
// transaction. On mysql each DDL statement autocommits regardless, so a
// mid-script failure there can leave earlier statements applied; the guards
// make the re-run converge.
func applyScript(ctx context.Context, db *sql.DB, dialect string, sc Script, logger *slog.Logger) error {
	op := "apply " + sc.Name

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction for migration %s: %w", sc.Name, err)
	}
	defer tx.Rollback() // no-op if committed

	for _, stmt := range SplitStatements(sc.SQL) {
		exec := stmt
		if guard, ok := ParseGuardedAddColumn(stmt); ok && dialect != ddl.Postgres {
			// mysql and sqlite have no native ADD COLUMN IF NOT EXISTS;
			// check existence here and execute the stripped statement.
			exists, err := introspect.HasColumn(ctx, tx, dialect, guard.Table, guard.Column)
			if err != nil {
				return dberr.Classify(op, err)
			}
			if exists {
				logger.Info("column_exists_skip",
					"migration", sc.Name, "table", guard.Table, "column", guard.Column)
				continue
			}
			exec = guard.Stripped
		}
		if _, err := tx.ExecContext(ctx, exec); err != nil {
			return dberr.Classify(op, err)
		}
	}

	if err := RecordMigrationTx(ctx, tx, dialect, Version(sc.Name), sc.Name, sc.Checksum); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", sc.Name, err)
	}

	logger.Info("migration_applied", "migration", sc.Name, "checksum", shortSum(sc.Checksum))
	return nil
}

func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
