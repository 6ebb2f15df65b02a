package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// Drift is a recorded migration whose source script no longer hashes to the
// recorded checksum. Editing an applied script is the usual cause.
type Drift struct {
	Name     string
	Recorded string // checksum stored in the tracking table
	Source   string // checksum of the script on disk
}

// VerifyReport lists every disagreement between the tracking table and the
// migration source.
type VerifyReport struct {
	Drifted []Drift  // applied, but source content changed
	Missing []string // applied, but no source script of that name
}

// Clean reports whether the tracking table and the source agree.
func (r *VerifyReport) Clean() bool {
	return len(r.Drifted) == 0 && len(r.Missing) == 0
}

// Verify recomputes source checksums against the tracking table. Pending
// scripts are not a verification failure; they simply haven't run yet.
func Verify(ctx context.Context, db *sql.DB, dialect string, scripts []Script) (*VerifyReport, error) {
	if err := ValidateScripts(scripts); err != nil {
		return nil, err
	}

	report := &VerifyReport{}

	hasTable, err := HasTrackingTable(ctx, db, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to check tracking table: %w", err)
	}
	if !hasTable {
		return report, nil
	}

	records, err := GetAppliedMigrations(ctx, db, dialect)
	if err != nil {
		return nil, err
	}

	sourceSums := make(map[string]string, len(scripts))
	for _, sc := range scripts {
		sourceSums[sc.Name] = sc.Checksum
	}

	for _, rec := range records {
		sum, ok := sourceSums[rec.Name]
		switch {
		case !ok:
			report.Missing = append(report.Missing, rec.Name)
		case sum != rec.Checksum:
			report.Drifted = append(report.Drifted, Drift{Name: rec.Name, Recorded: rec.Checksum, Source: sum})
		}
	}

	return report, nil
}
