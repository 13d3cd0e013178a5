package table

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name used when WriteXLSX gets an empty name.
const DefaultSheet = "Sheet1"

// WriteXLSX writes the table as a single-sheet workbook. The first row holds
// the column names. Numbers, booleans and times are written as native cell
// values; other types are written as text.
func (t *Table) WriteXLSX(w io.Writer, sheet string) error {
	if err := t.Err(); err != nil {
		return err
	}
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet %q: %w", sheet, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open sheet %q: %w", sheet, err)
	}

	header := make([]any, len(t.columns))
	for i, col := range t.columns {
		header[i] = col.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for n, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = xlsxValue(v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", n, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}

func xlsxValue(v any) any {
	switch x := v.(type) {
	case nil, NullValue:
		return nil
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, bool, string, time.Time, time.Duration:
		return x
	case decimal.Decimal:
		return x.InexactFloat64()
	case uuid.UUID:
		return x.String()
	default:
		return formatCell(x)
	}
}
