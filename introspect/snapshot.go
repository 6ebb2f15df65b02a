package introspect

import (
	"context"
	"strconv"
	"strings"

	"github.com/stepsql/stepsql/ddl"
)

// Snapshot reads every table except the excluded ones and maps them onto the
// portable schema model. Reported types are normalized back to the portable
// type names; anything unrecognized keeps its lowercased database type so the
// snapshot stays faithful.
func Snapshot(ctx context.Context, q Querier, dialect string, exclude ...string) (*ddl.Schema, error) {
	tables, err := Tables(ctx, q, dialect)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	schema := &ddl.Schema{Tables: []ddl.Table{}}
	for _, name := range tables {
		if excluded[name] {
			continue
		}
		cols, err := Columns(ctx, q, dialect, name)
		if err != nil {
			return nil, err
		}
		table := ddl.Table{Name: name, Columns: make([]ddl.ColumnDefinition, 0, len(cols))}
		for _, col := range cols {
			table.Columns = append(table.Columns, toDefinition(col))
		}
		schema.Tables = append(schema.Tables, table)
	}

	return schema, nil
}

func toDefinition(col Column) ddl.ColumnDefinition {
	typ, length := normalizeType(col.DBType)
	if length == 0 {
		length = col.Length
	}

	def := ddl.ColumnDefinition{
		Name:       col.Name,
		Type:       typ,
		Nullable:   col.Nullable,
		Default:    col.Default,
		PrimaryKey: col.PrimaryKey,
	}
	if typ == ddl.StringType && length > 0 {
		def.Length = &length
	}
	return def
}

// normalizeType maps a reported database type to a portable type name plus
// any character length embedded in the type text, e.g. "VARCHAR(255)".
func normalizeType(dbType string) (string, int) {
	t := strings.ToLower(strings.TrimSpace(dbType))

	length := 0
	if open := strings.IndexByte(t, '('); open >= 0 {
		if end := strings.IndexByte(t[open:], ')'); end > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(t[open+1 : open+end])); err == nil {
				length = n
			}
		}
		t = strings.TrimSpace(t[:open])
	}

	switch t {
	case "int", "integer", "int4", "mediumint", "smallint":
		// tinyint is mysql's boolean, handled below
		return ddl.IntegerType, 0
	case "bigint", "int8":
		return ddl.BigintType, 0
	case "varchar", "character varying", "char", "character", "nvarchar":
		return ddl.StringType, length
	case "text", "longtext", "mediumtext", "tinytext", "clob":
		return ddl.TextType, 0
	case "boolean", "bool":
		return ddl.BooleanType, 0
	case "tinyint":
		return ddl.BooleanType, 0
	case "decimal", "numeric":
		return ddl.DecimalType, 0
	case "double precision", "double", "float", "real":
		return ddl.FloatType, 0
	case "datetime":
		return ddl.DatetimeType, 0
	case "timestamp", "timestamp with time zone", "timestamp without time zone", "timestamptz":
		return ddl.TimestampType, 0
	case "bytea", "blob", "binary", "varbinary", "longblob", "mediumblob":
		return ddl.BinaryType, 0
	case "json", "jsonb":
		return ddl.JSONType, 0
	default:
		return t, length
	}
}
