package ddl

import (
	"fmt"
	"strings"
)

// sqliteType maps portable types to SQLite types
func sqliteType(col *ColumnDefinition) string {
	switch col.Type {
	case IntegerType, BigintType:
		// SQLite INTEGER is always 64-bit
		return "INTEGER"
	case StringType:
		// SQLite doesn't have VARCHAR, use TEXT
		return "TEXT"
	case TextType:
		return "TEXT"
	case BooleanType:
		// SQLite uses INTEGER for booleans (0=false, 1=true)
		return "INTEGER"
	case DecimalType:
		// SQLite uses REAL for decimals
		return "REAL"
	case FloatType:
		return "REAL"
	case DatetimeType, TimestampType:
		// SQLite stores datetime as TEXT (ISO8601 format)
		return "TEXT"
	case BinaryType:
		return "BLOB"
	case JSONType:
		// SQLite stores JSON as TEXT
		return "TEXT"
	default:
		return "TEXT"
	}
}

// escapeSQLiteString escapes single quotes in a string for SQLite
func escapeSQLiteString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// formatSQLiteDefault formats a default value for SQLite
func formatSQLiteDefault(col *ColumnDefinition) string {
	if col.Default == nil {
		return ""
	}

	defaultVal := *col.Default
	switch col.Type {
	case BooleanType:
		// SQLite booleans default to 1 or 0
		if defaultVal == "true" {
			return "1"
		}
		return "0"
	case IntegerType, BigintType, FloatType, DecimalType:
		// Numeric defaults are unquoted
		return defaultVal
	default:
		// String defaults are single-quoted
		return fmt.Sprintf("'%s'", escapeSQLiteString(defaultVal))
	}
}

// generateSQLiteColumnDef generates a column definition for CREATE TABLE
// and ADD COLUMN. An integer primary key becomes a rowid alias, which
// requires the type spelled exactly INTEGER and no NOT NULL clause.
func generateSQLiteColumnDef(col *ColumnDefinition) string {
	rowidAlias := col.PrimaryKey && (col.Type == IntegerType || col.Type == BigintType)

	var parts []string

	// Column name (double-quoted like PostgreSQL)
	parts = append(parts, fmt.Sprintf(`"%s"`, col.Name))

	if rowidAlias {
		parts = append(parts, "INTEGER")
	} else {
		parts = append(parts, sqliteType(col))
	}

	if !rowidAlias && !col.Nullable && !col.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}

	if col.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}

	// DEFAULT (skip for rowid alias, rowid is the source of truth)
	if col.Default != nil && !rowidAlias {
		parts = append(parts, "DEFAULT", formatSQLiteDefault(col))
	}

	return strings.Join(parts, " ")
}

// generateSQLiteCreateTable generates a CREATE TABLE IF NOT EXISTS statement
// for SQLite, plus index statements for any defined indexes.
func generateSQLiteCreateTable(table *Table) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (`, table.Name))

	for i, col := range table.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(generateSQLiteColumnDef(&col))
	}

	sb.WriteString(")")

	var indexStatements []string
	for _, idx := range table.Indexes {
		indexStatements = append(indexStatements, generateSQLiteIndexStatement(table.Name, &idx))
	}

	result := sb.String()
	if len(indexStatements) > 0 {
		result += ";\n" + strings.Join(indexStatements, ";\n")
	}

	return result
}

// generateSQLiteAddColumn generates a guarded ADD COLUMN statement. SQLite
// has no IF NOT EXISTS clause on ADD COLUMN, so the guard is written for the
// migration engine, which strips it and consults PRAGMA table_info before
// executing.
func generateSQLiteAddColumn(tableName string, col *ColumnDefinition) string {
	return fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN IF NOT EXISTS %s`,
		tableName, generateSQLiteColumnDef(col))
}

// generateSQLiteIndexStatement generates a CREATE INDEX statement for SQLite
func generateSQLiteIndexStatement(tableName string, idx *IndexDefinition) string {
	var sb strings.Builder

	if idx.Unique {
		sb.WriteString("CREATE UNIQUE INDEX IF NOT EXISTS ")
	} else {
		sb.WriteString("CREATE INDEX IF NOT EXISTS ")
	}

	// Index name (double-quoted)
	sb.WriteString(fmt.Sprintf(`"%s" ON "%s" (`, idx.Name, tableName))

	for i, col := range idx.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf(`"%s"`, col))
	}

	sb.WriteString(")")

	return sb.String()
}
