package demo

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stepsql/stepsql/ddl"
	"github.com/stepsql/stepsql/introspect"
)

func TestMigrateFromScratch(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	applied, err := Migrate(ctx, db, ddl.SQLite)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("applied = %v, want both migrations", applied)
	}

	cols, err := introspect.Columns(ctx, db, ddl.SQLite, "users")
	if err != nil {
		t.Fatalf("Columns failed: %v", err)
	}

	byName := make(map[string]introspect.Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}
	for _, want := range []string{"id", "email", "password_hash", "full_name", "country", "phone_number"} {
		if _, ok := byName[want]; !ok {
			t.Errorf("users missing column %s", want)
		}
	}
	for _, profile := range []string{"full_name", "country", "phone_number"} {
		if !byName[profile].Nullable {
			t.Errorf("column %s should be nullable", profile)
		}
	}
}

func TestMigrateTwiceIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	if _, err := Migrate(ctx, db, ddl.SQLite); err != nil {
		t.Fatalf("first Migrate failed: %v", err)
	}

	// Insert a user between runs; the second run must not touch it.
	_, err = db.Exec(`INSERT INTO users (id, email, password_hash) VALUES ('u1', 'a@example.com', 'x')`)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	applied, err := Migrate(ctx, db, ddl.SQLite)
	if err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second Migrate applied %v, want nothing", applied)
	}

	var email string
	var fullName sql.NullString
	err = db.QueryRow(`SELECT email, full_name FROM users WHERE id = 'u1'`).Scan(&email, &fullName)
	if err != nil {
		t.Fatalf("row scan failed: %v", err)
	}
	if email != "a@example.com" {
		t.Errorf("email = %q", email)
	}
	if fullName.Valid {
		t.Errorf("full_name should be NULL, got %q", fullName.String)
	}
}

func TestProfileColumnsOnPreexistingUsers(t *testing.T) {
	// A users table that predates stepsql: only the profile migration runs
	// statements; the guarded create is a no-op.
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	setup := `CREATE TABLE users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(255)
	)`
	if _, err := db.Exec(setup); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := Migrate(ctx, db, ddl.SQLite); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	// full_name existed already; only country and phone_number are added.
	cols, err := introspect.Columns(ctx, db, ddl.SQLite, "users")
	if err != nil {
		t.Fatalf("Columns failed: %v", err)
	}
	if len(cols) != 6 {
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.Name
		}
		t.Errorf("columns = %v, want 6", names)
	}
}
