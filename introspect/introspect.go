// Package introspect answers questions about live database schemas: which
// tables exist, which columns they have, and what a full snapshot looks
// like. The migration engine uses it to implement column-existence guards
// on dialects without a native ADD COLUMN IF NOT EXISTS.
package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stepsql/stepsql/ddl"
)

// Querier is the subset of *sql.DB and *sql.Tx used for introspection, so
// guard checks can run inside the migration's own transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Column is one column as reported by the database.
type Column struct {
	Name       string
	DBType     string // declared or reported type, e.g. "VARCHAR(255)", "character varying", "TEXT"
	Length     int    // character length when the dialect reports it separately, 0 otherwise
	Nullable   bool
	Default    *string
	PrimaryKey bool
}

// Tables returns the list of all table names in the database.
func Tables(ctx context.Context, q Querier, dialect string) ([]string, error) {
	var querySQL string

	switch dialect {
	case ddl.Postgres:
		querySQL = `
			SELECT tablename FROM pg_tables
			WHERE schemaname = 'public'
			ORDER BY tablename`
	case ddl.MySQL:
		querySQL = `
			SELECT table_name FROM information_schema.tables
			WHERE table_schema = DATABASE()
			ORDER BY table_name`
	case ddl.SQLite:
		querySQL = `
			SELECT name FROM sqlite_master
			WHERE type='table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name`
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}

	rows, err := q.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	return tables, nil
}

// HasTable reports whether the named table exists.
func HasTable(ctx context.Context, q Querier, dialect, table string) (bool, error) {
	switch dialect {
	case ddl.Postgres:
		var exists bool
		err := q.QueryRowContext(ctx,
			`SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		return exists, nil
	case ddl.MySQL:
		var count int
		err := q.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_name = ?`, table).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		return count > 0, nil
	case ddl.SQLite:
		var count int
		err := q.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM sqlite_master
			WHERE type = 'table' AND name = ?`, table).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		return count > 0, nil
	default:
		return false, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// HasColumn reports whether the named column exists on the table. A missing
// table reports false without error, matching what a pre-flight existence
// check needs.
func HasColumn(ctx context.Context, q Querier, dialect, table, column string) (bool, error) {
	switch dialect {
	case ddl.Postgres:
		var count int
		err := q.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = 'public' AND table_name = $1 AND column_name = $2`,
			table, column).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("failed to check column %s.%s: %w", table, column, err)
		}
		return count > 0, nil
	case ddl.MySQL:
		var count int
		err := q.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`,
			table, column).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("failed to check column %s.%s: %w", table, column, err)
		}
		return count > 0, nil
	case ddl.SQLite:
		var count int
		err := q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
			table, column).Scan(&count)
		if err != nil {
			return false, fmt.Errorf("failed to check column %s.%s: %w", table, column, err)
		}
		return count > 0, nil
	default:
		return false, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// Columns returns the columns of a table in ordinal position order. The
// result is empty for a table that does not exist.
func Columns(ctx context.Context, q Querier, dialect, table string) ([]Column, error) {
	switch dialect {
	case ddl.Postgres:
		return postgresColumns(ctx, q, table)
	case ddl.MySQL:
		return mysqlColumns(ctx, q, table)
	case ddl.SQLite:
		return sqliteColumns(ctx, q, table)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

func postgresColumns(ctx context.Context, q Querier, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT column_name, data_type, COALESCE(character_maximum_length, 0),
		       is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var col Column
		var nullable string
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.DBType, &col.Length, &nullable, &def); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		col.Nullable = nullable == "YES"
		if def.Valid {
			col.Default = &def.String
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}

	pk, err := postgresPrimaryKey(ctx, q, table)
	if err != nil {
		return nil, err
	}
	for i := range cols {
		if pk[cols[i].Name] {
			cols[i].PrimaryKey = true
		}
	}

	return cols, nil
}

func postgresPrimaryKey(ctx context.Context, q Querier, table string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = 'public' AND tc.table_name = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key of %s: %w", table, err)
	}
	defer rows.Close()

	pk := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan primary key of %s: %w", table, err)
		}
		pk[name] = true
	}
	return pk, rows.Err()
}

func mysqlColumns(ctx context.Context, q Querier, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT column_name, data_type, COALESCE(character_maximum_length, 0),
		       is_nullable, column_default, column_key
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var col Column
		var nullable, key string
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.DBType, &col.Length, &nullable, &def, &key); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		col.Nullable = nullable == "YES"
		col.PrimaryKey = key == "PRI"
		if def.Valid {
			col.Default = &def.String
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func sqliteColumns(ctx context.Context, q Querier, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var col Column
		var notNull, pk int
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.DBType, &notNull, &def, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		col.Nullable = notNull == 0
		col.PrimaryKey = pk > 0
		if def.Valid {
			col.Default = &def.String
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}
