package ddl

import "strconv"

// TableBuilder owns the table and provides methods to add columns and indexes.
type TableBuilder struct {
	table *Table
}

// ColumnBuilder addresses its column by index into the table's column slice,
// so modifiers stay valid after later additions reallocate the slice.
type ColumnBuilder struct {
	tableBuilder *TableBuilder
	idx          int
}

func (b *ColumnBuilder) col() *ColumnDefinition {
	return &b.tableBuilder.table.Columns[b.idx]
}

// MakeEmptyTable constructs a new table with no columns.
func MakeEmptyTable(name string) *TableBuilder {
	return &TableBuilder{
		table: &Table{
			Name:    name,
			Columns: []ColumnDefinition{},
			Indexes: []IndexDefinition{},
		},
	}
}

// Build returns the constructed table.
func (tb *TableBuilder) Build() *Table {
	return tb.table
}

// AddIndex adds a composite index on the specified columns.
func (tb *TableBuilder) AddIndex(cols ...string) *TableBuilder {
	tb.table.Indexes = append(tb.table.Indexes, IndexDefinition{
		Name:    GenerateIndexName(tb.table.Name, cols),
		Columns: cols,
		Unique:  false,
	})
	return tb
}

// AddUniqueIndex adds a unique composite index on the specified columns.
func (tb *TableBuilder) AddUniqueIndex(cols ...string) *TableBuilder {
	tb.table.Indexes = append(tb.table.Indexes, IndexDefinition{
		Name:    GenerateIndexName(tb.table.Name, cols),
		Columns: cols,
		Unique:  true,
	})
	return tb
}

func (tb *TableBuilder) addColumn(name, typ string) *ColumnBuilder {
	tb.table.Columns = append(tb.table.Columns, ColumnDefinition{
		Name: name,
		Type: typ,
	})
	return &ColumnBuilder{
		tableBuilder: tb,
		idx:          len(tb.table.Columns) - 1,
	}
}

// Integer adds an integer column.
func (tb *TableBuilder) Integer(name string) *ColumnBuilder {
	return tb.addColumn(name, IntegerType)
}

// Bigint adds a bigint (64-bit integer) column.
func (tb *TableBuilder) Bigint(name string) *ColumnBuilder {
	return tb.addColumn(name, BigintType)
}

// String adds a string column with VARCHAR(255).
func (tb *TableBuilder) String(name string) *ColumnBuilder {
	length := 255
	cb := tb.addColumn(name, StringType)
	cb.col().Length = &length
	return cb
}

// Varchar adds a string column with specified length.
func (tb *TableBuilder) Varchar(name string, length int) *ColumnBuilder {
	cb := tb.addColumn(name, StringType)
	cb.col().Length = &length
	return cb
}

// Text adds an unlimited text column.
func (tb *TableBuilder) Text(name string) *ColumnBuilder {
	return tb.addColumn(name, TextType)
}

// Bool adds a boolean column.
func (tb *TableBuilder) Bool(name string) *ColumnBuilder {
	return tb.addColumn(name, BooleanType)
}

// Decimal adds a decimal column with specified precision and scale.
func (tb *TableBuilder) Decimal(name string, precision int, scale int) *ColumnBuilder {
	cb := tb.addColumn(name, DecimalType)
	cb.col().Precision = &precision
	cb.col().Scale = &scale
	return cb
}

// Float adds a float column.
func (tb *TableBuilder) Float(name string) *ColumnBuilder {
	return tb.addColumn(name, FloatType)
}

// Datetime adds a datetime column (with timezone where the dialect has one).
func (tb *TableBuilder) Datetime(name string) *ColumnBuilder {
	return tb.addColumn(name, DatetimeType)
}

// Timestamp adds a timestamp column (with timezone where the dialect has one).
func (tb *TableBuilder) Timestamp(name string) *ColumnBuilder {
	return tb.addColumn(name, TimestampType)
}

// Binary adds a binary/blob column.
func (tb *TableBuilder) Binary(name string) *ColumnBuilder {
	return tb.addColumn(name, BinaryType)
}

// JSON adds a JSON column.
func (tb *TableBuilder) JSON(name string) *ColumnBuilder {
	return tb.addColumn(name, JSONType)
}

// PrimaryKey marks the column as a primary key.
func (b *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	b.col().PrimaryKey = true
	return b
}

// Nullable marks the column as nullable.
func (b *ColumnBuilder) Nullable() *ColumnBuilder {
	b.col().Nullable = true
	return b
}

// Unique marks the column as unique and adds a unique index.
func (b *ColumnBuilder) Unique() *ColumnBuilder {
	b.col().Unique = true
	b.tableBuilder.AddUniqueIndex(b.col().Name)
	return b
}

// Indexed adds a non-unique index on this column.
func (b *ColumnBuilder) Indexed() *ColumnBuilder {
	b.tableBuilder.AddIndex(b.col().Name)
	return b
}

// Default sets the default value from its SQL literal text, e.g. "0",
// "true", "pending".
func (b *ColumnBuilder) Default(v string) *ColumnBuilder {
	b.col().Default = &v
	return b
}

// DefaultInt sets the default value for an integer column.
func (b *ColumnBuilder) DefaultInt(v int64) *ColumnBuilder {
	s := strconv.FormatInt(v, 10)
	b.col().Default = &s
	return b
}

// DefaultBool sets the default value for a boolean column.
func (b *ColumnBuilder) DefaultBool(v bool) *ColumnBuilder {
	s := strconv.FormatBool(v)
	b.col().Default = &s
	return b
}
