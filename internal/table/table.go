// Package table provides the in-memory, column-aligned table that flows
// through the feature pipeline.
//
// Tables are immutable once built. Every transformation returns a new Table;
// unchanged columns may be shared between the old and new table because no
// exported API can modify a column's values.
package table

import (
	"errors"
	"fmt"
)

// ColumnType is the logical type of a column.
type ColumnType int

const (
	TypeNumeric ColumnType = iota
	TypeString
)

func (t ColumnType) String() string {
	if t == TypeString {
		return "string"
	}
	return "numeric"
}

// Column is a named, typed sequence of values.
type Column struct {
	name   string
	typ    ColumnType
	values []Value
}

// NewColumn builds a column from a copy of values.
func NewColumn(name string, typ ColumnType, values []Value) Column {
	vs := make([]Value, len(values))
	copy(vs, values)
	return Column{name: name, typ: typ, values: vs}
}

// NumericColumn builds a numeric column from float64s.
func NumericColumn(name string, values []float64) Column {
	vs := make([]Value, len(values))
	for i, f := range values {
		vs[i] = Number(f)
	}
	return Column{name: name, typ: TypeNumeric, values: vs}
}

func (c Column) Name() string     { return c.name }
func (c Column) Type() ColumnType { return c.typ }
func (c Column) Len() int         { return len(c.values) }

// At returns the value at row i.
func (c Column) At(i int) Value {
	return c.values[i]
}

// Values returns a copy of the column's values.
func (c Column) Values() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

// Rename returns the same values under a new name.
func (c Column) Rename(name string) Column {
	c.name = name
	return c
}

// take returns a column holding the rows at idx, in that order.
func (c Column) take(idx []int) Column {
	vs := make([]Value, len(idx))
	for i, r := range idx {
		vs[i] = c.values[r]
	}
	return Column{name: c.name, typ: c.typ, values: vs}
}

// ErrRowCount is returned when columns of different lengths are combined.
var ErrRowCount = errors.New("column row counts differ")

// Table is an ordered set of equally long columns.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table from columns. Column names must be unique and all
// columns must have the same length.
func New(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d: %w", c.name, c.Len(), t.rows, ErrRowCount)
		}
		t.columns[i] = c
		t.index[c.name] = i
	}
	return t, nil
}

// MustNew is New for tests and literals; it panics on error.
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Columns returns the columns in order. Columns are values and cannot be
// used to modify the table.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether a column with that name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c := range t.columns {
		row[c] = t.columns[c].values[i]
	}
	return row
}

// RowKey returns a string that is equal for two rows exactly when every
// value in them is equal under Value.Equal.
func (t *Table) RowKey(i int) string {
	var b []byte
	for c := range t.columns {
		b = t.columns[c].values[i].appendKey(b)
	}
	return string(b)
}

// Take returns a new table with the rows at idx, in that order.
func (t *Table) Take(idx []int) *Table {
	out := &Table{
		columns: make([]Column, len(t.columns)),
		index:   t.index,
		rows:    len(idx),
	}
	for i, c := range t.columns {
		out.columns[i] = c.take(idx)
	}
	return out
}

// Clone returns a new table sharing t's columns.
func (t *Table) Clone() *Table {
	out := &Table{
		columns: make([]Column, len(t.columns)),
		index:   t.index,
		rows:    t.rows,
	}
	copy(out.columns, t.columns)
	return out
}

// WithColumn returns a new table with c appended, or replacing the column of
// the same name in place. All other columns are shared with t.
func (t *Table) WithColumn(c Column) (*Table, error) {
	if len(t.columns) > 0 && c.Len() != t.rows {
		return nil, fmt.Errorf("column %q has %d rows, want %d: %w", c.name, c.Len(), t.rows, ErrRowCount)
	}

	cols := make([]Column, len(t.columns), len(t.columns)+1)
	copy(cols, t.columns)
	if i, ok := t.index[c.name]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return New(cols...)
}

// Equal reports whether two tables have the same columns, types and values.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for i, c := range t.columns {
		oc := o.columns[i]
		if c.name != oc.name || c.typ != oc.typ {
			return false
		}
		for r := range c.values {
			if !c.values[r].Equal(oc.values[r]) {
				return false
			}
		}
	}
	return true
}
