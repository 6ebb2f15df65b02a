package ddl

import (
	"strconv"
	"testing"
)

func TestBuilderColumnTypes(t *testing.T) {
	tests := []struct {
		name        string
		buildTable  func() *Table
		wantType    string
		wantColName string
	}{
		{
			name: "Integer sets integer type",
			buildTable: func() *Table {
				tb := MakeEmptyTable("test")
				tb.Integer("count")
				return tb.Build()
			},
			wantType:    IntegerType,
			wantColName: "count",
		},
		{
			name: "Bigint sets bigint type",
			buildTable: func() *Table {
				tb := MakeEmptyTable("test")
				tb.Bigint("id")
				return tb.Build()
			},
			wantType:    BigintType,
			wantColName: "id",
		},
		{
			name: "String sets string type",
			buildTable: func() *Table {
				tb := MakeEmptyTable("test")
				tb.String("name")
				return tb.Build()
			},
			wantType:    StringType,
			wantColName: "name",
		},
		{
			name: "Bool sets boolean type",
			buildTable: func() *Table {
				tb := MakeEmptyTable("test")
				tb.Bool("active")
				return tb.Build()
			},
			wantType:    BooleanType,
			wantColName: "active",
		},
		{
			name: "Datetime sets datetime type",
			buildTable: func() *Table {
				tb := MakeEmptyTable("test")
				tb.Datetime("created_at")
				return tb.Build()
			},
			wantType:    DatetimeType,
			wantColName: "created_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := tt.buildTable()
			if len(table.Columns) != 1 {
				t.Fatalf("expected 1 column, got %d", len(table.Columns))
			}
			col := table.Columns[0]
			if col.Name != tt.wantColName {
				t.Errorf("Name = %q, want %q", col.Name, tt.wantColName)
			}
			if col.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", col.Type, tt.wantType)
			}
		})
	}
}

func TestBuilderStringDefaultsTo255(t *testing.T) {
	tb := MakeEmptyTable("test")
	tb.String("name")
	col := tb.Build().Columns[0]
	if col.Length == nil || *col.Length != 255 {
		t.Errorf("Length = %v, want 255", col.Length)
	}
}

func TestBuilderVarcharLength(t *testing.T) {
	tb := MakeEmptyTable("test")
	tb.Varchar("country", 100)
	col := tb.Build().Columns[0]
	if col.Length == nil || *col.Length != 100 {
		t.Errorf("Length = %v, want 100", col.Length)
	}
}

func TestBuilderDecimalPrecisionScale(t *testing.T) {
	tb := MakeEmptyTable("test")
	tb.Decimal("price", 10, 2)
	col := tb.Build().Columns[0]
	if col.Precision == nil || *col.Precision != 10 {
		t.Errorf("Precision = %v, want 10", col.Precision)
	}
	if col.Scale == nil || *col.Scale != 2 {
		t.Errorf("Scale = %v, want 2", col.Scale)
	}
}

func TestBuilderModifiers(t *testing.T) {
	tb := MakeEmptyTable("users")
	tb.Integer("id").PrimaryKey()
	tb.String("full_name").Nullable()
	tb.String("email").Unique()
	table := tb.Build()

	if !table.Columns[0].PrimaryKey {
		t.Error("PrimaryKey() should set PrimaryKey")
	}
	if !table.Columns[1].Nullable {
		t.Error("Nullable() should set Nullable")
	}
	if !table.Columns[2].Unique {
		t.Error("Unique() should set Unique")
	}
	if len(table.Indexes) != 1 {
		t.Fatalf("Unique() should add one index, got %d", len(table.Indexes))
	}
	idx := table.Indexes[0]
	if idx.Name != "idx_users_email" || !idx.Unique {
		t.Errorf("unexpected index %+v", idx)
	}
}

func TestBuilderModifierAfterSliceGrowth(t *testing.T) {
	tb := MakeEmptyTable("users")
	first := tb.String("full_name")
	// Force the column slice to reallocate before using the earlier builder.
	for i := 0; i < 16; i++ {
		tb.Integer("n" + strconv.Itoa(i))
	}
	first.Nullable().Default("unknown")
	table := tb.Build()

	col := table.Columns[0]
	if !col.Nullable {
		t.Error("Nullable() on an early builder should survive slice growth")
	}
	if col.Default == nil || *col.Default != "unknown" {
		t.Errorf("Default = %v, want %q", col.Default, "unknown")
	}
}

func TestBuilderIndexed(t *testing.T) {
	tb := MakeEmptyTable("users")
	tb.String("country").Indexed()
	table := tb.Build()

	if len(table.Indexes) != 1 {
		t.Fatalf("Indexed() should add one index, got %d", len(table.Indexes))
	}
	idx := table.Indexes[0]
	if idx.Name != "idx_users_country" || idx.Unique {
		t.Errorf("unexpected index %+v", idx)
	}
}

func TestBuilderCompositeIndex(t *testing.T) {
	tb := MakeEmptyTable("users")
	tb.String("country")
	tb.String("phone_number")
	tb.AddIndex("country", "phone_number")
	table := tb.Build()

	if len(table.Indexes) != 1 {
		t.Fatalf("expected 1 index, got %d", len(table.Indexes))
	}
	idx := table.Indexes[0]
	if idx.Name != "idx_users_country_phone_number" {
		t.Errorf("Name = %q, want idx_users_country_phone_number", idx.Name)
	}
	if len(idx.Columns) != 2 {
		t.Errorf("Columns = %v, want two columns", idx.Columns)
	}
}

func TestBuilderDefaults(t *testing.T) {
	tb := MakeEmptyTable("users")
	tb.Bool("email_verified").DefaultBool(false)
	tb.Integer("login_count").DefaultInt(0)
	tb.String("status").Default("pending")
	table := tb.Build()

	wants := []string{"false", "0", "pending"}
	for i, want := range wants {
		col := table.Columns[i]
		if col.Default == nil || *col.Default != want {
			t.Errorf("column %s Default = %v, want %q", col.Name, col.Default, want)
		}
	}
}
