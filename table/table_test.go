package table

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named struct {
	ID   int
	Name string
}

// ----------------------------------------------------------------------------
// Builder Tests
// ----------------------------------------------------------------------------

func TestFill_ProjectedRows(t *testing.T) {
	items := []named{{1, "Name1"}, {2, "Name2"}, {3, "Name3"}}

	tbl := New()
	tbl = AddColumn[int](tbl, "id", false)
	tbl = AddColumn[string](tbl, "Name", false)
	tbl = Fill(tbl, slices.Values(items), func(n named) []any {
		return []any{n.ID, n.Name}
	})
	require.NoError(t, tbl.Err())

	cols := tbl.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, reflect.TypeFor[int](), cols[0].Type)
	assert.Equal(t, reflect.TypeFor[string](), cols[1].Type)
	assert.Equal(t, 1, cols[1].Ordinal)

	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, 1, tbl.Row(0).Value("id"))
	assert.Equal(t, "Name1", tbl.Row(0).Value("Name"))
	assert.Equal(t, "Name3", tbl.Row(2).At(1))
}

func TestFill_WholeElementWithoutProjection(t *testing.T) {
	tbl := Fill(AddColumn[int](New(), "id", false), slices.Values([]int{1, 1, 1, 1}), nil)
	require.NoError(t, tbl.Err())

	assert.Len(t, tbl.Columns(), 1)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, 1, tbl.Row(0).Value("id"))
}

func TestFill_NilProjectionResultUsesElement(t *testing.T) {
	tbl := Fill(AddColumn[string](New(), "s", false), slices.Values([]string{"a"}), func(string) []any {
		return nil
	})
	require.NoError(t, tbl.Err())
	assert.Equal(t, "a", tbl.Row(0).At(0))
}

func TestFill_NilInputs(t *testing.T) {
	var nilTable *Table
	assert.Nil(t, Fill(nilTable, slices.Values([]int{1}), nil))
	assert.Nil(t, AddColumn[int](nilTable, "id", false))
	assert.NoError(t, nilTable.Err())
	assert.Equal(t, 0, nilTable.Len())

	tbl := Fill[int](AddColumn[int](New(), "id", false), nil, nil)
	require.NoError(t, tbl.Err())
	assert.Equal(t, 0, tbl.Len())
}

func TestFill_StopsAtFirstBadRow(t *testing.T) {
	tbl := AddColumn[int](New(), "id", false)
	tbl = Fill(tbl, slices.Values([]any{1, "two", 3}), nil)

	err := tbl.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, 1, tbl.Len())

	// Sticky: later builder calls do nothing.
	tbl = AddColumn[string](tbl, "extra", true)
	assert.Len(t, tbl.Columns(), 1)
	assert.ErrorIs(t, tbl.AddRow(4), ErrTypeMismatch)
}

// ----------------------------------------------------------------------------
// Column Tests
// ----------------------------------------------------------------------------

func TestAddColumn_NamesAreCaseInsensitive(t *testing.T) {
	tbl := AddColumn[int](New(), "Id", false)

	col, ok := tbl.Column("ID")
	require.True(t, ok)
	assert.Equal(t, "Id", col.Name)
	assert.Equal(t, 0, tbl.ColumnIndex(" id "))
	assert.Equal(t, -1, tbl.ColumnIndex("missing"))

	tbl = AddColumn[string](tbl, "iD", true)
	assert.ErrorIs(t, tbl.Err(), ErrDuplicateColumn)
}

func TestAddColumn_EmptyName(t *testing.T) {
	tbl := AddColumn[int](New(), "  ", false)
	assert.ErrorIs(t, tbl.Err(), ErrEmptyColumnName)
}

func TestAddColumn_PadsExistingRows(t *testing.T) {
	tbl := AddColumn[int](New(), "id", false)
	require.NoError(t, tbl.AddRow(1))

	tbl = AddColumn[string](tbl, "late", false)
	require.NoError(t, tbl.Err())

	assert.True(t, tbl.Row(0).IsNull("late"))
	assert.Equal(t, []any{1, Null}, tbl.Row(0).Values())
}

func TestAddColumnType_NilMeansAny(t *testing.T) {
	tbl := New().AddColumnType("anything", nil, false)
	require.NoError(t, tbl.AddRow("text"))
	require.NoError(t, tbl.AddRow(42))
	assert.Equal(t, 42, tbl.Row(1).At(0))
}

// ----------------------------------------------------------------------------
// Row Validation Tests
// ----------------------------------------------------------------------------

func TestAddRow_Nullable(t *testing.T) {
	n := 7
	var nilPtr *int

	tbl := AddColumn[int](New(), "n", true)
	require.NoError(t, tbl.AddRow(nil))
	require.NoError(t, tbl.AddRow(nilPtr))
	require.NoError(t, tbl.AddRow(Null))
	require.NoError(t, tbl.AddRow(&n))
	require.NoError(t, tbl.AddRow())

	assert.True(t, IsNull(tbl.Row(0).At(0)))
	assert.True(t, IsNull(tbl.Row(1).At(0)))
	assert.True(t, IsNull(tbl.Row(2).At(0)))
	assert.Equal(t, 7, tbl.Row(3).At(0))
	assert.True(t, IsNull(tbl.Row(4).At(0)))
}

func TestFill_NullableProjection(t *testing.T) {
	type reading struct {
		Sensor string
		Value  *int
	}
	v := 21
	items := []reading{{"a", &v}, {"b", nil}, {"c", nil}}

	tbl := New()
	tbl = AddColumn[string](tbl, "sensor", false)
	tbl = AddColumn[int](tbl, "value", true)
	tbl = Fill(tbl, slices.Values(items), func(r reading) []any {
		switch {
		case r.Value != nil:
			return []any{r.Sensor, *r.Value}
		case r.Sensor == "b":
			return []any{r.Sensor, nil}
		default:
			return []any{r.Sensor, Null}
		}
	})
	require.NoError(t, tbl.Err())
	require.Equal(t, 3, tbl.Len())

	assert.Equal(t, 21, tbl.Row(0).Value("value"))
	assert.False(t, tbl.Row(0).IsNull("value"))
	assert.True(t, tbl.Row(1).IsNull("value"))
	assert.True(t, tbl.Row(2).IsNull("value"))
	assert.Equal(t, Null, tbl.Row(2).At(1))
}

func TestFill_NullIntoRequiredColumn(t *testing.T) {
	tbl := AddColumn[int](New(), "value", false)
	tbl = Fill(tbl, slices.Values([]int{1, 0, 3}), func(n int) []any {
		if n == 0 {
			return []any{nil}
		}
		return []any{n}
	})

	require.ErrorIs(t, tbl.Err(), ErrNullNotAllowed)
	assert.Equal(t, 1, tbl.Len(), "rows before the failure stay")
}

func TestAddRow_Errors(t *testing.T) {
	tests := []struct {
		name    string
		column  func(*Table) *Table
		values  []any
		wantErr error
	}{
		{
			name:    "null in required column",
			column:  func(t *Table) *Table { return AddColumn[int](t, "n", false) },
			values:  []any{nil},
			wantErr: ErrNullNotAllowed,
		},
		{
			name:    "missing value in required column",
			column:  func(t *Table) *Table { return AddColumn[string](t, "s", false) },
			values:  nil,
			wantErr: ErrNullNotAllowed,
		},
		{
			name:    "string into int",
			column:  func(t *Table) *Table { return AddColumn[int](t, "n", false) },
			values:  []any{"1"},
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "fraction into int",
			column:  func(t *Table) *Table { return AddColumn[int](t, "n", false) },
			values:  []any{1.5},
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "overflow into uint8",
			column:  func(t *Table) *Table { return AddColumn[uint8](t, "n", false) },
			values:  []any{300},
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "negative into uint",
			column:  func(t *Table) *Table { return AddColumn[uint](t, "n", false) },
			values:  []any{-1},
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "too many values",
			column:  func(t *Table) *Table { return AddColumn[int](t, "n", false) },
			values:  []any{1, 2},
			wantErr: ErrTooManyValues,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := tt.column(New())
			err := tbl.AddRow(tt.values...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.Equal(t, 0, tbl.Len())
			assert.NoError(t, tbl.Err(), "AddRow must not record an error on the table")
		})
	}
}

func TestAddRow_LosslessNumericConversion(t *testing.T) {
	tbl := New()
	tbl = AddColumn[int64](tbl, "big", false)
	tbl = AddColumn[float64](tbl, "f", false)
	tbl = AddColumn[uint16](tbl, "u", false)
	require.NoError(t, tbl.AddRow(5, int32(2), 65535))

	assert.Equal(t, int64(5), tbl.Row(0).At(0))
	assert.Equal(t, float64(2), tbl.Row(0).At(1))
	assert.Equal(t, uint16(65535), tbl.Row(0).At(2))
}

func TestAddRow_FloatNarrowing(t *testing.T) {
	tbl := AddColumn[float32](New(), "f", false)
	tbl = Fill(tbl, slices.Values([]float64{1.1, -0.3, math.MaxFloat32}), nil)
	require.NoError(t, tbl.Err())

	assert.Equal(t, float32(1.1), tbl.Row(0).At(0))
	assert.Equal(t, float32(-0.3), tbl.Row(1).At(0))
	assert.Equal(t, float32(math.MaxFloat32), tbl.Row(2).At(0))

	assert.ErrorIs(t, tbl.AddRow(1e39), ErrTypeMismatch)
	assert.ErrorIs(t, tbl.AddRow(-1e39), ErrTypeMismatch)
	require.NoError(t, tbl.AddRow(math.Inf(1)))
	assert.True(t, math.IsInf(float64(tbl.Row(3).At(0).(float32)), 1))

	// integer columns still require an exact value
	ints := AddColumn[int](New(), "n", false)
	assert.ErrorIs(t, ints.AddRow(1.1), ErrTypeMismatch)
}

func TestRow_ValuesIsCopy(t *testing.T) {
	tbl := AddColumn[int](New(), "n", false)
	require.NoError(t, tbl.AddRow(1))

	vals := tbl.Row(0).Values()
	vals[0] = 99
	assert.Equal(t, 1, tbl.Row(0).At(0))
	assert.Nil(t, tbl.Row(0).Value("missing"))
	assert.Len(t, tbl.Rows(), 1)
}
