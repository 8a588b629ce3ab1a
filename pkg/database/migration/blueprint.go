package migration

import "github.com/biyonik/conduit-go/pkg/database"

// -----------------------------------------------------------------------------
// Blueprint - Table Schema Builder
// -----------------------------------------------------------------------------

// Blueprint defines the structure of a table.
type Blueprint struct {
	table   string
	columns []database.ColumnDefinition
}

// NewBlueprint creates a new Blueprint instance.
func NewBlueprint(tableName string) *Blueprint {
	return &Blueprint{
		table:   tableName,
		columns: make([]database.ColumnDefinition, 0),
	}
}

// Table returns the table name.
func (b *Blueprint) Table() string {
	return b.table
}

// Columns returns a copy of the collected column definitions.
func (b *Blueprint) Columns() []database.ColumnDefinition {
	out := make([]database.ColumnDefinition, len(b.columns))
	copy(out, b.columns)
	return out
}

// ID adds an auto-incrementing primary key column named "id".
func (b *Blueprint) ID() *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: "id", Type: database.TypeSerial})
}

// String adds a VARCHAR column. A zero length falls back to 255.
func (b *Blueprint) String(name string, length int) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeString, Length: length})
}

// Text adds a TEXT column.
func (b *Blueprint) Text(name string) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeText})
}

// Integer adds an integer column.
func (b *Blueprint) Integer(name string) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeInt})
}

// Currency adds an integer column holding minor units.
func (b *Blueprint) Currency(name string) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeCurrency})
}

// Float adds a floating point column.
func (b *Blueprint) Float(name string) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeFloat})
}

// Boolean adds a boolean column.
func (b *Blueprint) Boolean(name string) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeBoolean})
}

// DateTime adds a datetime column.
func (b *Blueprint) DateTime(name string) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeDateTime})
}

// JSON adds a json column.
func (b *Blueprint) JSON(name string) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeJSON})
}

// UUID adds a uuid column.
func (b *Blueprint) UUID(name string) *ColumnBuilder {
	return b.addColumn(database.ColumnDefinition{Name: name, Type: database.TypeUUID})
}

// Timestamps adds created_at and updated_at columns.
func (b *Blueprint) Timestamps() {
	b.DateTime("created_at").Nullable()
	b.DateTime("updated_at").Nullable()
}

// addColumn adds a column to the blueprint. The returned builder refers to
// the column by index, so it stays valid when the slice grows.
func (b *Blueprint) addColumn(column database.ColumnDefinition) *ColumnBuilder {
	b.columns = append(b.columns, column)
	return &ColumnBuilder{blueprint: b, index: len(b.columns) - 1}
}

// -----------------------------------------------------------------------------
// Column Builder
// -----------------------------------------------------------------------------

// ColumnBuilder modifies the last added column.
type ColumnBuilder struct {
	blueprint *Blueprint
	index     int
}

func (c *ColumnBuilder) column() *database.ColumnDefinition {
	return &c.blueprint.columns[c.index]
}

// Nullable marks the column as nullable.
func (c *ColumnBuilder) Nullable() *ColumnBuilder {
	c.column().Nullable = true
	return c
}

// Unique adds a unique constraint.
func (c *ColumnBuilder) Unique() *ColumnBuilder {
	c.column().Unique = true
	return c
}

// Primary marks the column as the primary key.
func (c *ColumnBuilder) Primary() *ColumnBuilder {
	c.column().Primary = true
	return c
}
