package migrate

import (
	"context"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stepsql/stepsql/ddl"
)

func TestEnsureTrackingTableIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := EnsureTrackingTable(ctx, db, ddl.SQLite); err != nil {
			t.Fatalf("EnsureTrackingTable run %d failed: %v", i+1, err)
		}
	}

	has, err := HasTrackingTable(ctx, db, ddl.SQLite)
	if err != nil {
		t.Fatalf("HasTrackingTable failed: %v", err)
	}
	if !has {
		t.Error("tracking table should exist")
	}
}

func TestHasTrackingTableOnFreshDatabase(t *testing.T) {
	db := openTestDB(t)

	has, err := HasTrackingTable(context.Background(), db, ddl.SQLite)
	if err != nil {
		t.Fatalf("HasTrackingTable failed: %v", err)
	}
	if has {
		t.Error("fresh database should have no tracking table")
	}
}

func TestRecordAndReadBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := EnsureTrackingTable(ctx, db, ddl.SQLite); err != nil {
		t.Fatalf("EnsureTrackingTable failed: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	sum := Checksum(profileSQL)
	if err := RecordMigrationTx(ctx, tx, ddl.SQLite, "20260219083455", profileName, sum); err != nil {
		t.Fatalf("RecordMigrationTx failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	records, err := GetAppliedMigrations(ctx, db, ddl.SQLite)
	if err != nil {
		t.Fatalf("GetAppliedMigrations failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Name != profileName {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Version != "20260219083455" {
		t.Errorf("Version = %q", rec.Version)
	}
	if rec.Checksum != sum {
		t.Errorf("Checksum = %q", rec.Checksum)
	}
	if rec.AppliedAt.IsZero() {
		t.Error("AppliedAt should parse to a real time")
	}
}

func TestRecordRollsBackWithTransaction(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := EnsureTrackingTable(ctx, db, ddl.SQLite); err != nil {
		t.Fatalf("EnsureTrackingTable failed: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if err := RecordMigrationTx(ctx, tx, ddl.SQLite, "20260219083455", profileName, "deadbeef"); err != nil {
		t.Fatalf("RecordMigrationTx failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	records, err := GetAppliedMigrations(ctx, db, ddl.SQLite)
	if err != nil {
		t.Fatalf("GetAppliedMigrations failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("rolled-back record should not appear, got %v", records)
	}
}

func TestSameTimestampDifferentNames(t *testing.T) {
	// The tracking table keys on the full name, so two migrations created
	// in the same second coexist.
	db := openTestDB(t)
	ctx := context.Background()

	if err := EnsureTrackingTable(ctx, db, ddl.SQLite); err != nil {
		t.Fatalf("EnsureTrackingTable failed: %v", err)
	}

	for _, name := range []string{"20260111170659_create_users", "20260111170659_create_pets"} {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		if err := RecordMigrationTx(ctx, tx, ddl.SQLite, "20260111170659", name, "00"); err != nil {
			t.Fatalf("RecordMigrationTx(%s) failed: %v", name, err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	}

	records, err := GetAppliedMigrations(ctx, db, ddl.SQLite)
	if err != nil {
		t.Fatalf("GetAppliedMigrations failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}
}

func TestEnsureTrackingTableRejectsUnknownDialect(t *testing.T) {
	db := openTestDB(t)
	if err := EnsureTrackingTable(context.Background(), db, "oracle"); err == nil {
		t.Error("unknown dialect should be rejected")
	}
}
