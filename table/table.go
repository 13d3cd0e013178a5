// Package table builds in-memory tables with typed columns.
//
// A Table is declared column by column and then filled from a sequence:
//
//	t := table.New()
//	t = table.AddColumn[int](t, "id", false)
//	t = table.AddColumn[string](t, "name", true)
//	t = table.Fill(t, slices.Values(users), func(u User) []any {
//	    return []any{u.ID, u.Name}
//	})
//	if err := t.Err(); err != nil { ... }
//
// Builder calls record the first failure on the table instead of returning it,
// so they chain. Once a table has an error further builder calls are no-ops.
//
// Cells hold values of their column's type, or [Null] in columns that allow
// it. Column names are unique and matched case-insensitively.
package table

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"
)

var (
	// ErrNullNotAllowed is returned when a null reaches a non-nullable column.
	ErrNullNotAllowed = errors.New("null not allowed")

	// ErrTypeMismatch is returned when a value cannot be stored in a column.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrTooManyValues is returned when a row has more values than columns.
	ErrTooManyValues = errors.New("more values than columns")

	// ErrDuplicateColumn is returned when a column name is already declared.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrEmptyColumnName is returned for a column without a name.
	ErrEmptyColumnName = errors.New("empty column name")
)

// NullValue is the type of the Null placeholder.
type NullValue struct{}

func (NullValue) String() string { return "NULL" }

// Null marks an absent cell in a nullable column.
var Null NullValue

// IsNull reports whether v is the Null placeholder.
func IsNull(v any) bool {
	_, ok := v.(NullValue)
	return ok
}

// Column describes one column of a table.
type Column struct {
	Name      string
	Type      reflect.Type // Element type; an interface type accepts any assignable value
	AllowNull bool
	Ordinal   int // Position in the table
}

// Table is an ordered set of typed columns and the rows filled into them.
// A Table is not safe for concurrent mutation.
type Table struct {
	columns []Column
	index   map[string]int // lowercased name -> ordinal
	rows    [][]any
	err     error
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// AddColumn declares a column of element type T. A nil table is returned
// unchanged. Rows already present get Null in the new column without
// validation.
func AddColumn[T any](t *Table, name string, allowNull bool) *Table {
	return t.AddColumnType(name, reflect.TypeFor[T](), allowNull)
}

// AddColumnType declares a column with an explicit element type.
func (t *Table) AddColumnType(name string, typ reflect.Type, allowNull bool) *Table {
	if t == nil || t.err != nil {
		return t
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		t.err = ErrEmptyColumnName
		return t
	}
	key := strings.ToLower(name)
	if _, dup := t.index[key]; dup {
		t.err = fmt.Errorf("add column %q: %w", name, ErrDuplicateColumn)
		return t
	}
	if typ == nil {
		typ = reflect.TypeFor[any]()
	}

	col := Column{Name: name, Type: typ, AllowNull: allowNull, Ordinal: len(t.columns)}
	t.columns = append(t.columns, col)
	t.index[key] = col.Ordinal

	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Null)
	}
	return t
}

// Fill appends one row per element of s, in order. project turns an element
// into cell values in column order. When project is nil, or returns nil, the
// element itself is stored as a single-cell row. A nil table is returned
// unchanged and a nil s adds nothing.
//
// The first row that fails validation stops the fill and is recorded on the
// table (see Err). Rows added before it are kept.
func Fill[T any](t *Table, s iter.Seq[T], project func(T) []any) *Table {
	if t == nil || t.err != nil || s == nil {
		return t
	}
	for item := range s {
		var values []any
		if project != nil {
			values = project(item)
		}
		if values == nil {
			values = []any{item}
		}
		if err := t.AddRow(values...); err != nil {
			t.err = err
			break
		}
	}
	return t
}

// AddRow validates values against the columns and appends them as a row.
// Missing trailing values are treated as null. The table's recorded error,
// if any, is returned without adding the row.
func (t *Table) AddRow(values ...any) error {
	if t == nil {
		return errors.New("add row: nil table")
	}
	if t.err != nil {
		return t.err
	}
	if len(values) > len(t.columns) {
		return fmt.Errorf("row %d: %d values for %d columns: %w",
			len(t.rows), len(values), len(t.columns), ErrTooManyValues)
	}

	row := make([]any, len(t.columns))
	for i, col := range t.columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		cell, err := convertCell(v, col)
		if err != nil {
			return fmt.Errorf("row %d column %q: %w", len(t.rows), col.Name, err)
		}
		row[i] = cell
	}

	t.rows = append(t.rows, row)
	return nil
}

// Err returns the first error recorded by a builder call.
func (t *Table) Err() error {
	if t == nil {
		return nil
	}
	return t.err
}

// Columns returns the column definitions in order.
func (t *Table) Columns() []Column {
	if t == nil {
		return nil
	}
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks up a column by case-insensitive name.
func (t *Table) Column(name string) (Column, bool) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return Column{}, false
	}
	return t.columns[i], true
}

// ColumnIndex returns the ordinal of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	if i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]; ok {
		return i
	}
	return -1
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns the i-th row. It panics if i is out of range.
func (t *Table) Row(i int) Row {
	return Row{table: t, values: t.rows[i]}
}

// Rows returns all rows in insertion order.
func (t *Table) Rows() []Row {
	if t == nil {
		return nil
	}
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = Row{table: t, values: t.rows[i]}
	}
	return out
}

// Row is a read-only view of one table row.
type Row struct {
	table  *Table
	values []any
}

// At returns the cell at column ordinal i.
func (r Row) At(i int) any { return r.values[i] }

// Value returns the cell in the named column, or nil if there is no such
// column.
func (r Row) Value(name string) any {
	i := r.table.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	return r.values[i]
}

// IsNull reports whether the named column holds Null.
func (r Row) IsNull(name string) bool { return IsNull(r.Value(name)) }

// Values returns a copy of the row's cells in column order.
func (r Row) Values() []any {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}
