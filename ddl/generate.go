package ddl

// Dialect names accepted by the generator functions. These match the values
// inferred from database URLs; anything unrecognized falls back to postgres.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// CreateTable generates a CREATE TABLE IF NOT EXISTS statement for the
// dialect, followed by CREATE INDEX statements when the table defines
// indexes. Statements are joined with ";\n".
func CreateTable(dialect string, table *Table) string {
	switch dialect {
	case MySQL:
		return generateMySQLCreateTable(table)
	case SQLite:
		return generateSQLiteCreateTable(table)
	default:
		return generatePostgresCreateTable(table)
	}
}

// AddColumn generates a guarded ALTER TABLE ... ADD COLUMN IF NOT EXISTS
// statement for the dialect. Postgres executes the guard natively; for mysql
// and sqlite the migration engine strips it and checks column existence
// itself before executing.
func AddColumn(dialect, tableName string, col *ColumnDefinition) string {
	switch dialect {
	case MySQL:
		return generateMySQLAddColumn(tableName, col)
	case SQLite:
		return generateSQLiteAddColumn(tableName, col)
	default:
		return generatePostgresAddColumn(tableName, col)
	}
}

// CreateIndex generates a CREATE INDEX statement for the dialect. An index
// without a name gets one derived from the table and column names.
func CreateIndex(dialect, tableName string, idx *IndexDefinition) string {
	named := *idx
	if named.Name == "" {
		named.Name = GenerateIndexName(tableName, named.Columns)
	}
	switch dialect {
	case MySQL:
		return generateMySQLIndexStatement(tableName, &named)
	case SQLite:
		return generateSQLiteIndexStatement(tableName, &named)
	default:
		return generatePostgresIndexStatement(tableName, &named)
	}
}

// ColumnType returns the dialect-specific type for a column definition.
func ColumnType(dialect string, col *ColumnDefinition) string {
	switch dialect {
	case MySQL:
		return mysqlType(col)
	case SQLite:
		return sqliteType(col)
	default:
		return postgresType(col)
	}
}
