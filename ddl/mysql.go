package ddl

import (
	"fmt"
	"strings"
)

// mysqlType maps portable types to MySQL types
func mysqlType(col *ColumnDefinition) string {
	switch col.Type {
	case IntegerType:
		return "INT"
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
		// MySQL uses TINYINT(1) for booleans
		return "TINYINT(1)"
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
		return "DOUBLE"
	case DatetimeType:
		return "DATETIME"
	case TimestampType:
		return "TIMESTAMP"
	case BinaryType:
		return "BLOB"
	case JSONType:
		return "JSON"
	default:
		return "TEXT"
	}
}

// escapeMySQLString escapes single quotes in a string for MySQL
func escapeMySQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// formatMySQLDefault formats a default value for MySQL
func formatMySQLDefault(col *ColumnDefinition) string {
	if col.Default == nil {
		return ""
	}

	defaultVal := *col.Default
	switch col.Type {
	case BooleanType:
		// MySQL booleans default to 1 or 0
		if defaultVal == "true" {
			return "1"
		}
		return "0"
	case IntegerType, BigintType, FloatType, DecimalType:
		// Numeric defaults are unquoted
		return defaultVal
	default:
		// String defaults are single-quoted
		return fmt.Sprintf("'%s'", escapeMySQLString(defaultVal))
	}
}

// generateMySQLColumnDef generates a column definition for CREATE TABLE
// and ADD COLUMN
func generateMySQLColumnDef(col *ColumnDefinition) string {
	var parts []string

	// Column name (backtick-quoted)
	parts = append(parts, fmt.Sprintf("`%s`", col.Name))

	// Type
	parts = append(parts, mysqlType(col))

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
		parts = append(parts, "DEFAULT", formatMySQLDefault(col))
	}

	return strings.Join(parts, " ")
}

// generateMySQLCreateTable generates a CREATE TABLE IF NOT EXISTS statement
// for MySQL, plus index statements for any defined indexes.
func generateMySQLCreateTable(table *Table) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (", table.Name))

	for i, col := range table.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(generateMySQLColumnDef(&col))
	}

	sb.WriteString(") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4")

	var indexStatements []string
	for _, idx := range table.Indexes {
		indexStatements = append(indexStatements, generateMySQLIndexStatement(table.Name, &idx))
	}

	result := sb.String()
	if len(indexStatements) > 0 {
		result += ";\n" + strings.Join(indexStatements, ";\n")
	}

	return result
}

// generateMySQLAddColumn generates a guarded ADD COLUMN statement. MySQL has
// no IF NOT EXISTS clause on ADD COLUMN, so the guard is written for the
// migration engine, which strips it and consults information_schema before
// executing.
func generateMySQLAddColumn(tableName string, col *ColumnDefinition) string {
	return fmt.Sprintf("ALTER TABLE `%s` ADD COLUMN IF NOT EXISTS %s",
		tableName, generateMySQLColumnDef(col))
}

// generateMySQLIndexStatement generates a CREATE INDEX statement for MySQL.
// MySQL has no IF NOT EXISTS on CREATE INDEX.
func generateMySQLIndexStatement(tableName string, idx *IndexDefinition) string {
	var sb strings.Builder

	if idx.Unique {
		sb.WriteString("CREATE UNIQUE INDEX ")
	} else {
		sb.WriteString("CREATE INDEX ")
	}

	// Index name (backtick-quoted)
	sb.WriteString(fmt.Sprintf("`%s` ON `%s` (", idx.Name, tableName))

	for i, col := range idx.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("`%s`", col))
	}

	sb.WriteString(")")

	return sb.String()
}
