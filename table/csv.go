package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// WriteCSV writes a header line with the column names followed by one line
// per row. Null cells are written as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	if err := t.Err(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(t.columns))
	for n, row := range t.rows {
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", n, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCell renders a cell as text for CSV and spreadsheet output.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil, NullValue:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
