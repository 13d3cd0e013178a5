package table

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// CopyFromer is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type CopyFromer interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CopySource returns the rows as a pgx.CopyFromSource. Cells are converted
// to pgtype values where the driver has no native encoding for them.
func (t *Table) CopySource() pgx.CopyFromSource {
	return &copySource{t: t, i: -1}
}

// CopyTo bulk-loads the rows into the named table with COPY. The name may be
// schema-qualified ("schema.table"). Destination columns are matched by the
// table's column names.
func (t *Table) CopyTo(ctx context.Context, db CopyFromer, name string) (int64, error) {
	if err := t.Err(); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("copy: empty table name")
	}

	columns := make([]string, len(t.columns))
	for i, col := range t.columns {
		columns[i] = col.Name
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier(strings.Split(name, ".")), columns, t.CopySource())
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", name, err)
	}
	return n, nil
}

type copySource struct {
	t   *Table
	i   int
	err error
}

func (s *copySource) Next() bool {
	if s.err != nil || s.t == nil {
		return false
	}
	s.i++
	return s.i < len(s.t.rows)
}

func (s *copySource) Values() ([]any, error) {
	row := s.t.rows[s.i]
	out := make([]any, len(row))
	for i, v := range row {
		pv, err := pgValue(v)
		if err != nil {
			s.err = fmt.Errorf("row %d column %q: %w", s.i, s.t.columns[i].Name, err)
			return nil, s.err
		}
		out[i] = pv
	}
	return out, nil
}

func (s *copySource) Err() error { return s.err }

// pgValue maps a cell to a value pgx can encode for COPY.
func pgValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, NullValue:
		return nil, nil
	case decimal.Decimal:
		var n pgtype.Numeric
		if err := n.Scan(x.String()); err != nil {
			return nil, err
		}
		return n, nil
	case uuid.UUID:
		return pgtype.UUID{Bytes: x, Valid: true}, nil
	case time.Duration:
		return pgtype.Interval{Microseconds: x.Microseconds(), Valid: true}, nil
	default:
		return x, nil
	}
}
