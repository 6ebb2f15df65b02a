package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// StatusReport pairs the tracking table's view of a database with the
// scripts found in the source.
type StatusReport struct {
	Applied []Record // recorded rows, version order
	Pending []Script // source scripts with no tracking row, version order
}

// Status reports which source scripts have been applied to the database and
// which are still pending. It never writes: a database without a tracking
// table reports every script pending.
func Status(ctx context.Context, db *sql.DB, dialect string, scripts []Script) (*StatusReport, error) {
	if err := ValidateScripts(scripts); err != nil {
		return nil, err
	}

	report := &StatusReport{}

	hasTable, err := HasTrackingTable(ctx, db, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to check tracking table: %w", err)
	}
	if hasTable {
		report.Applied, err = GetAppliedMigrations(ctx, db, dialect)
		if err != nil {
			return nil, err
		}
	}

	appliedSet := make(map[string]bool, len(report.Applied))
	for _, rec := range report.Applied {
		appliedSet[rec.Name] = true
	}
	for _, sc := range scripts {
		if !appliedSet[sc.Name] {
			report.Pending = append(report.Pending, sc)
		}
	}

	return report, nil
}
