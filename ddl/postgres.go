package ddl

import (
	"fmt"
	"strings"
)

// postgresType maps portable types to PostgreSQL types
func postgresType(col *ColumnDefinition) string {
	switch col.Type {
	case IntegerType:
		return "INTEGER"
	case BigintType:
		return "BIGINT"
	case StringType:
		length := 255
		if col.Length != nil {
			length = *col.Length
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	case TextType:
		return "TEXT"
	case BooleanType:
		return "BOOLEAN"
	case DecimalType:
		precision := 10
		scale := 0
		if col.Precision != nil {
			precision = *col.Precision
		}
		if col.Scale != nil {
			scale = *col.Scale
		}
		return fmt.Sprintf("DECIMAL(%d, %d)", precision, scale)
	case FloatType:
		return "DOUBLE PRECISION"
	case DatetimeType, TimestampType:
		return "TIMESTAMP WITH TIME ZONE"
	case BinaryType:
		return "BYTEA"
	case JSONType:
		return "JSONB"
	default:
		return "TEXT"
	}
}

// escapePostgresString escapes single quotes in a string for PostgreSQL
func escapePostgresString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// formatPostgresDefault formats a default value for PostgreSQL
func formatPostgresDefault(col *ColumnDefinition) string {
	if col.Default == nil {
		return ""
	}

	defaultVal := *col.Default
	switch col.Type {
	case BooleanType:
		// Boolean defaults: TRUE or FALSE
		if defaultVal == "true" {
			return "TRUE"
		}
		return "FALSE"
	case IntegerType, BigintType, FloatType, DecimalType:
		// Numeric defaults are unquoted
		return defaultVal
	default:
		// String defaults are single-quoted
		return fmt.Sprintf("'%s'", escapePostgresString(defaultVal))
	}
}

// generatePostgresColumnDef generates a column definition for CREATE TABLE
// and ADD COLUMN
func generatePostgresColumnDef(col *ColumnDefinition) string {
	var parts []string

	// Column name (double-quoted)
	parts = append(parts, fmt.Sprintf(`"%s"`, col.Name))

	// Type
	parts = append(parts, postgresType(col))

	// NOT NULL (only if not nullable and not primary key - PK implies NOT NULL)
	if !col.Nullable && !col.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}

	// PRIMARY KEY
	if col.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}

	// DEFAULT
	if col.Default != nil {
		parts = append(parts, "DEFAULT", formatPostgresDefault(col))
	}

	return strings.Join(parts, " ")
}

// generatePostgresCreateTable generates a CREATE TABLE IF NOT EXISTS
// statement for PostgreSQL, plus index statements for any defined indexes.
func generatePostgresCreateTable(table *Table) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (`, table.Name))

	for i, col := range table.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(generatePostgresColumnDef(&col))
	}

	sb.WriteString(")")

	var indexStatements []string
	for _, idx := range table.Indexes {
		indexStatements = append(indexStatements, generatePostgresIndexStatement(table.Name, &idx))
	}

	result := sb.String()
	if len(indexStatements) > 0 {
		result += ";\n" + strings.Join(indexStatements, ";\n")
	}

	return result
}

// generatePostgresAddColumn generates a guarded ADD COLUMN statement.
// PostgreSQL has supported IF NOT EXISTS on ADD COLUMN since 9.6, so the
// guard runs server-side.
func generatePostgresAddColumn(tableName string, col *ColumnDefinition) string {
	return fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN IF NOT EXISTS %s`,
		tableName, generatePostgresColumnDef(col))
}

// generatePostgresIndexStatement generates a CREATE INDEX statement
func generatePostgresIndexStatement(tableName string, idx *IndexDefinition) string {
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
