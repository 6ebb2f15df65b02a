package migrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stepsql/stepsql/dberr"
	"github.com/stepsql/stepsql/ddl"
	"github.com/stepsql/stepsql/introspect"
)

// The canonical workload: add the three profile columns to users, each
// statement guarded so a re-run is a no-op.
const profileSQL = `-- add profile fields
ALTER TABLE users ADD COLUMN IF NOT EXISTS full_name VARCHAR(255);
ALTER TABLE users ADD COLUMN IF NOT EXISTS country VARCHAR(100);
ALTER TABLE users ADD COLUMN IF NOT EXISTS phone_number VARCHAR(20);
`

const profileName = "20260219083455_add_profile_fields_to_users"

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	cols, err := introspect.Columns(context.Background(), db, ddl.SQLite, table)
	if err != nil {
		t.Fatalf("Columns failed: %v", err)
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func TestUpAddsProfileColumns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Exec("CREATE TABLE users (id INT)"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO users (id) VALUES (1)"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	applied, err := Up(ctx, db, ddl.SQLite, []Script{NewScript(profileName, profileSQL)}, nil)
	if err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if len(applied) != 1 || applied[0] != profileName {
		t.Fatalf("applied = %v, want [%s]", applied, profileName)
	}

	want := []string{"id", "full_name", "country", "phone_number"}
	got := columnNames(t, db, "users")
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}

	// New columns must be nullable; the pre-existing row reads NULL for all three.
	cols, err := introspect.Columns(ctx, db, ddl.SQLite, "users")
	if err != nil {
		t.Fatalf("Columns failed: %v", err)
	}
	for _, c := range cols[1:] {
		if !c.Nullable {
			t.Errorf("column %s should be nullable", c.Name)
		}
	}

	var id int
	var fullName, country, phone sql.NullString
	err = db.QueryRow("SELECT id, full_name, country, phone_number FROM users WHERE id = 1").
		Scan(&id, &fullName, &country, &phone)
	if err != nil {
		t.Fatalf("row scan failed: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
	if fullName.Valid || country.Valid || phone.Valid {
		t.Errorf("existing row should read NULL for new columns, got (%v, %v, %v)", fullName, country, phone)
	}
}

func TestUpTwiceIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Exec("CREATE TABLE users (id INT)"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	scripts := []Script{NewScript(profileName, profileSQL)}

	if _, err := Up(ctx, db, ddl.SQLite, scripts, nil); err != nil {
		t.Fatalf("first Up failed: %v", err)
	}
	after1 := columnNames(t, db, "users")

	applied, err := Up(ctx, db, ddl.SQLite, scripts, nil)
	if err != nil {
		t.Fatalf("second Up failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second Up applied %v, want nothing", applied)
	}

	after2 := columnNames(t, db, "users")
	if len(after1) != len(after2) {
		t.Errorf("schema changed on second run: %v -> %v", after1, after2)
	}

	records, err := GetAppliedMigrations(ctx, db, ddl.SQLite)
	if err != nil {
		t.Fatalf("GetAppliedMigrations failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("tracking rows = %d, want 1", len(records))
	}
}

func TestApplySkipsExistingColumns(t *testing.T) {
	// Table already has all three columns. The guard makes the script a
	// no-op: no error, no duplicate columns.
	db := openTestDB(t)
	ctx := context.Background()

	setup := `CREATE TABLE users (
		id INT,
		full_name VARCHAR(255),
		country VARCHAR(100),
		phone_number VARCHAR(20)
	)`
	if _, err := db.Exec(setup); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	executed, err := Apply(ctx, db, ddl.SQLite, NewScript(profileName, profileSQL), nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !executed {
		t.Error("first Apply should execute")
	}

	got := columnNames(t, db, "users")
	if len(got) != 4 {
		t.Errorf("columns = %v, want exactly 4", got)
	}
}

func TestApplyAlreadyRecordedIsNoOp(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Exec("CREATE TABLE users (id INT)"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	sc := NewScript(profileName, profileSQL)
	if _, err := Apply(ctx, db, ddl.SQLite, sc, nil); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}

	executed, err := Apply(ctx, db, ddl.SQLite, sc, nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if executed {
		t.Error("second Apply should be a no-op")
	}
}

func TestApplyRejectsChecksumMismatch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Exec("CREATE TABLE users (id INT)"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := Apply(ctx, db, ddl.SQLite, NewScript(profileName, profileSQL), nil); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}

	edited := NewScript(profileName, profileSQL+"\n-- edited after apply\n")
	if _, err := Apply(ctx, db, ddl.SQLite, edited, nil); err == nil {
		t.Error("Apply with changed content should fail")
	}
}

func TestUpMissingTableIsSchemaError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := Up(ctx, db, ddl.SQLite, []Script{NewScript(profileName, profileSQL)}, nil)
	if err == nil {
		t.Fatal("Up against missing users table should fail")
	}
	if !dberr.IsSchema(err) {
		t.Errorf("error should classify as SchemaError, got %T: %v", err, err)
	}

	var schemaErr *dberr.SchemaError
	if errors.As(err, &schemaErr) && schemaErr.Table != "users" {
		t.Errorf("SchemaError.Table = %q, want users", schemaErr.Table)
	}
}

func TestUpValidatesSetBeforeExecuting(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Exec("CREATE TABLE users (id INT)"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tests := []struct {
		name    string
		scripts []Script
	}{
		{
			name: "out of order",
			scripts: []Script{
				NewScript("20260219083455_second", "CREATE TABLE b (id INT)"),
				NewScript("20260111170659_first", "CREATE TABLE a (id INT)"),
			},
		},
		{
			name: "duplicate name",
			scripts: []Script{
				NewScript("20260111170659_first", "CREATE TABLE a (id INT)"),
				NewScript("20260111170659_first", "CREATE TABLE a (id INT)"),
			},
		},
		{
			name: "invalid name",
			scripts: []Script{
				NewScript("not_a_migration", "CREATE TABLE a (id INT)"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Up(ctx, db, ddl.SQLite, tt.scripts, nil); err == nil {
				t.Fatal("Up should fail validation")
			}
			// Nothing may have executed, not even tracking table creation.
			has, err := introspect.HasTable(ctx, db, ddl.SQLite, "a")
			if err != nil {
				t.Fatalf("HasTable failed: %v", err)
			}
			if has {
				t.Error("no statement should execute when validation fails")
			}
		})
	}
}

func TestUpRollsBackFailedMigration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	scripts := []Script{NewScript("20260111170659_bad",
		`CREATE TABLE pets (id INTEGER PRIMARY KEY);
CREATE UNIQUE INDEX idx_pets_name ON pets (nonexistent_column)`)}

	if _, err := Up(ctx, db, ddl.SQLite, scripts, nil); err == nil {
		t.Fatal("Up should fail on bad index statement")
	}

	has, err := introspect.HasTable(ctx, db, ddl.SQLite, "pets")
	if err != nil {
		t.Fatalf("HasTable failed: %v", err)
	}
	if has {
		t.Error("failed migration should roll back its CREATE TABLE")
	}

	records, err := GetAppliedMigrations(ctx, db, ddl.SQLite)
	if err != nil {
		t.Fatalf("GetAppliedMigrations failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("failed migration must not be recorded, got %v", records)
	}
}

func TestUpAppliesInVersionOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	scripts := []Script{
		NewScript("20260111170659_create_users", "CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY)"),
		NewScript(profileName, profileSQL),
	}

	applied, err := Up(ctx, db, ddl.SQLite, scripts, nil)
	if err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("applied = %v, want both scripts", applied)
	}
	if applied[0] != "20260111170659_create_users" || applied[1] != profileName {
		t.Errorf("applied out of order: %v", applied)
	}
}

func TestUpResumesAfterPartialFailure(t *testing.T) {
	// First run fails on the second script. Fixing the environment and
	// re-running applies only what's missing.
	db := openTestDB(t)
	ctx := context.Background()

	createUsers := NewScript("20260111170659_create_users",
		"CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY)")
	badProfile := NewScript(profileName,
		"ALTER TABLE missing ADD COLUMN IF NOT EXISTS full_name VARCHAR(255)")

	applied, err := Up(ctx, db, ddl.SQLite, []Script{createUsers, badProfile}, nil)
	if err == nil {
		t.Fatal("Up should fail on the second script")
	}
	if len(applied) != 1 || applied[0] != createUsers.Name {
		t.Fatalf("first run applied = %v, want only create_users", applied)
	}

	applied, err = Up(ctx, db, ddl.SQLite, []Script{createUsers, NewScript(profileName, profileSQL)}, nil)
	if err != nil {
		t.Fatalf("second Up failed: %v", err)
	}
	if len(applied) != 1 || applied[0] != profileName {
		t.Errorf("second run applied = %v, want only the profile script", applied)
	}
}
