// Package ddl holds the database-agnostic schema model and the per-dialect
// SQL generation for the additive statements stepsql emits: CREATE TABLE,
// guarded ADD COLUMN, and CREATE INDEX.
package ddl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type constants for portable column types.
const (
	IntegerType   = "integer"
	BigintType    = "bigint"
	DecimalType   = "decimal"
	FloatType     = "float"
	BooleanType   = "boolean"
	StringType    = "string"
	TextType      = "text"
	DatetimeType  = "datetime"
	TimestampType = "timestamp"
	BinaryType    = "binary"
	JSONType      = "json"
)

// ColumnDefinition represents a column in a database table.
type ColumnDefinition struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Length     *int    `json:"length"`
	Precision  *int    `json:"precision"`
	Scale      *int    `json:"scale"`
	Nullable   bool    `json:"nullable"`
	Default    *string `json:"default"` // nil = no default, &"" = empty string default
	Unique     bool    `json:"unique"`
	PrimaryKey bool    `json:"primary_key"`
}

// IndexDefinition represents an index on a database table.
type IndexDefinition struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

// Table represents a database table with its columns and indexes.
type Table struct {
	Name    string             `json:"name"`
	Columns []ColumnDefinition `json:"columns"`
	Indexes []IndexDefinition  `json:"indexes"`
}

// Schema is the root of a schema snapshot, the shape written to schema.json.
type Schema struct {
	Tables []Table `json:"tables"`
}

// Serialize serializes the table to a JSON string.
func (t *Table) Serialize() (string, error) {
	jsonBytes, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}

// GenerateIndexName creates an index name from table and column names.
func GenerateIndexName(tableName string, columns []string) string {
	return "idx_" + tableName + "_" + strings.Join(columns, "_")
}

// validTypes is the accepted set for ParseColumnSpec, in display order.
var validTypes = []string{
	StringType, TextType, IntegerType, BigintType, BooleanType,
	DecimalType, FloatType, DatetimeType, TimestampType, BinaryType, JSONType,
}

// ParseColumnSpec parses a command-line column spec of the form
// name[:type[:length]] or name[:decimal[:precision,scale]] into a nullable
// column definition. The type defaults to string.
// Examples:
//
//	"full_name"              -> full_name string
//	"country:string:100"     -> country VARCHAR(100)
//	"balance:decimal:10,2"   -> balance DECIMAL(10, 2)
func ParseColumnSpec(spec string) (*ColumnDefinition, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 3 {
		return nil, fmt.Errorf("invalid column spec %q: expected name[:type[:length]]", spec)
	}

	name := parts[0]
	if !isIdentifier(name) {
		return nil, fmt.Errorf("invalid column name %q: must be lowercase snake_case", name)
	}

	col := &ColumnDefinition{Name: name, Type: StringType, Nullable: true}

	if len(parts) >= 2 {
		typ := strings.ToLower(parts[1])
		found := false
		for _, v := range validTypes {
			if typ == v {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("invalid column type %q: one of %s", parts[1], strings.Join(validTypes, ", "))
		}
		col.Type = typ
	}

	if len(parts) == 3 {
		size := parts[2]
		if col.Type == DecimalType {
			precision, scale, err := parsePrecisionScale(size)
			if err != nil {
				return nil, fmt.Errorf("invalid column spec %q: %w", spec, err)
			}
			col.Precision = &precision
			col.Scale = &scale
		} else {
			length, err := parsePositiveInt(size)
			if err != nil {
				return nil, fmt.Errorf("invalid column spec %q: %w", spec, err)
			}
			col.Length = &length
		}
	}

	return col, nil
}

// isIdentifier reports whether s is a safe unquotable SQL identifier:
// lowercase snake_case starting with a letter or underscore.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("length must be a positive integer, got %q", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("length must be a positive integer, got %q", s)
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 0, fmt.Errorf("length must be a positive integer, got %q", s)
	}
	return n, nil
}

func parsePrecisionScale(s string) (int, int, error) {
	parts := strings.SplitN(s, ",", 2)

	precision, err := parsePositiveInt(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("precision must be a positive integer, got %q", parts[0])
	}

	scale := 0
	if len(parts) == 2 {
		sc := strings.TrimSpace(parts[1])
		n := 0
		for _, r := range sc {
			if r < '0' || r > '9' {
				return 0, 0, fmt.Errorf("scale must be a non-negative integer, got %q", parts[1])
			}
			n = n*10 + int(r-'0')
		}
		if sc == "" {
			return 0, 0, fmt.Errorf("scale must be a non-negative integer, got %q", parts[1])
		}
		scale = n
	}

	return precision, scale, nil
}
