// Package importer loads CSV text into typed tables.
//
// Columns are declared with specs such as "id:int,price:decimal?". Each cell
// is converted with the parse package, so malformed values become defaults
// instead of errors. Only structural problems fail a load: a missing header
// column, unreadable CSV, or a row limit being exceeded.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/S-e-t/SimpleExtensions/table"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrNoColumns is returned when Load is called without column specs.
	ErrNoColumns = errors.New("no columns declared")

	// ErrMissingHeader is returned for input without a header line.
	ErrMissingHeader = errors.New("missing header")

	// ErrMissingColumn is returned when a declared column is not in the header.
	ErrMissingColumn = errors.New("missing column")

	// ErrTooManyRows is returned when the input exceeds Options.MaxRows.
	ErrTooManyRows = errors.New("too many rows")
)

// checkEvery is how many rows are read between context checks.
const checkEvery = 1000

// Options tune a load. The zero value reads comma-separated UTF-8 without a
// row limit.
type Options struct {
	// Encoding of the input. A byte order mark overrides it. Nil means UTF-8.
	Encoding encoding.Encoding

	// MaxRows bounds the number of data rows. Zero means unlimited.
	MaxRows int

	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// Load reads CSV from r into a table with one column per spec, in spec order.
// Header names are matched case-insensitively; extra input columns are
// ignored.
func Load(ctx context.Context, r io.Reader, specs []ColumnSpec, opts Options) (*table.Table, error) {
	if len(specs) == 0 {
		return nil, ErrNoColumns
	}

	tbl := table.New()
	for _, spec := range specs {
		tbl = tbl.AddColumnType(spec.Name, spec.Kind.Type(), spec.Nullable)
	}
	if err := tbl.Err(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(decodeInput(r, opts.Encoding))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	positions, err := resolveColumns(header, specs)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(specs))
	for {
		if tbl.Len()%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", tbl.Len()+1, err)
		}
		if opts.MaxRows > 0 && tbl.Len() >= opts.MaxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, opts.MaxRows)
		}

		for i, spec := range specs {
			var cell string
			if p := positions[i]; p < len(record) {
				cell = cleanCell(record[p])
			}
			values[i] = spec.Value(cell)
		}

		if err := tbl.AddRow(values...); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return tbl, nil
}

// resolveColumns returns, for each spec, the position of its column in header.
func resolveColumns(header []string, specs []ColumnSpec) ([]int, error) {
	index := headerIndex(header)

	positions := make([]int, len(specs))
	var missing []string
	for i, spec := range specs {
		p, ok := index[strings.ToLower(spec.Name)]
		if !ok {
			missing = append(missing, spec.Name)
			continue
		}
		positions[i] = p
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return positions, nil
}

// decodeInput converts r to UTF-8. A leading BOM is dropped and selects the
// matching Unicode decoder; invalid sequences become U+FFFD.
func decodeInput(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		enc = unicode.UTF8
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))
}
