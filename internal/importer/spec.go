package importer

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/S-e-t/SimpleExtensions/dict"
	"github.com/S-e-t/SimpleExtensions/parse"
	"github.com/S-e-t/SimpleExtensions/seq"
	"github.com/S-e-t/SimpleExtensions/table"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidSpec is returned by ParseSpecs for malformed column specs.
var ErrInvalidSpec = errors.New("invalid column spec")

// Kind is the value type of an imported column.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt
	KindLong
	KindDouble
	KindFloat
	KindDecimal
	KindBool
	KindGUID
	KindDate
	KindDuration
)

var kinds = parse.NewEnumSet(map[string]Kind{
	"string":   KindString,
	"int":      KindInt,
	"long":     KindLong,
	"double":   KindDouble,
	"float":    KindFloat,
	"decimal":  KindDecimal,
	"bool":     KindBool,
	"guid":     KindGUID,
	"date":     KindDate,
	"duration": KindDuration,
})

var kindTypes = map[Kind]reflect.Type{
	KindString:   reflect.TypeFor[string](),
	KindInt:      reflect.TypeFor[int32](),
	KindLong:     reflect.TypeFor[int64](),
	KindDouble:   reflect.TypeFor[float64](),
	KindFloat:    reflect.TypeFor[float32](),
	KindDecimal:  reflect.TypeFor[decimal.Decimal](),
	KindBool:     reflect.TypeFor[bool](),
	KindGUID:     reflect.TypeFor[uuid.UUID](),
	KindDate:     reflect.TypeFor[time.Time](),
	KindDuration: reflect.TypeFor[time.Duration](),
}

// ParseKind resolves a kind name case-insensitively. It returns 0 for
// unknown names.
func ParseKind(s string) Kind {
	s = strings.TrimSpace(s)
	// Numeric text would resolve to a member value, not a name.
	if s == "" || s[0] == '+' || s[0] == '-' || unicode.IsDigit(rune(s[0])) {
		return 0
	}
	return kinds.Parse(s)
}

// KindNames lists the supported kind names.
func KindNames() []string { return kinds.Names() }

func (k Kind) String() string {
	if name, ok := kinds.Name(k); ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type returns the Go type stored in table cells of this kind.
func (k Kind) Type() reflect.Type { return kindTypes[k] }

// ColumnSpec declares one imported column.
type ColumnSpec struct {
	Name     string
	Kind     Kind
	Nullable bool
	Layout   string // Go time layout for dates, duration pattern for durations
}

// String renders the column spec in the syntax accepted by ParseSpecs.
func (c ColumnSpec) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(':')
	b.WriteString(c.Kind.String())
	if c.Nullable {
		b.WriteByte('?')
	}
	if c.Layout != "" {
		b.WriteByte('(')
		b.WriteString(c.Layout)
		b.WriteByte(')')
	}
	return b.String()
}

// Value converts a cleaned cell to the column's cell value. An empty cell in
// a nullable column is table.Null; anything unparseable becomes the kind's
// zero value.
func (c ColumnSpec) Value(cell string) any {
	if c.Nullable && strings.TrimSpace(cell) == "" {
		return table.Null
	}

	switch c.Kind {
	case KindInt:
		return parse.Int32(cell)
	case KindLong:
		return parse.Int64(cell)
	case KindDouble:
		return parse.Float64(cell)
	case KindFloat:
		return parse.Float32(cell)
	case KindDecimal:
		return parse.Decimal(cell)
	case KindBool:
		return parse.Bool(cell)
	case KindGUID:
		return parse.GUID(cell)
	case KindDate:
		if c.Layout != "" {
			return parse.DateTimeExact(strings.TrimSpace(cell), c.Layout)
		}
		return parse.DateTime(cell)
	case KindDuration:
		if c.Layout != "" {
			return parse.DurationExact(strings.TrimSpace(cell), c.Layout)
		}
		return parse.Duration(cell)
	default:
		return cell
	}
}

// ParseSpecs parses a comma-separated list of column specs of the form
// name:kind[?][(layout)]. Commas inside a layout are allowed.
//
//	id:int,name:string,price:decimal?,born:date(Jan 2, 2006)
func ParseSpecs(s string) ([]ColumnSpec, error) {
	parts := splitSpecs(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidSpec)
	}

	specs := make([]ColumnSpec, 0, len(parts))
	for _, part := range parts {
		spec, err := parseSpec(part)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	byName := seq.GroupBy(slices.Values(specs), func(c ColumnSpec) string {
		return strings.ToLower(c.Name)
	})
	for name, group := range byName.All() {
		if len(group) > 1 {
			return nil, fmt.Errorf("%w: column %q declared %d times", ErrInvalidSpec, name, len(group))
		}
	}
	return specs, nil
}

func parseSpec(s string) (ColumnSpec, error) {
	s = strings.TrimSpace(s)
	name, rest, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return ColumnSpec{}, fmt.Errorf("%w: %q: want name:kind", ErrInvalidSpec, s)
	}

	spec := ColumnSpec{Name: name}
	rest = strings.TrimSpace(rest)

	if open := strings.IndexByte(rest, '('); open >= 0 {
		end := strings.LastIndexByte(rest, ')')
		if end < open {
			return ColumnSpec{}, fmt.Errorf("%w: %q: unclosed layout", ErrInvalidSpec, s)
		}
		spec.Layout = rest[open+1 : end]
		tail := strings.TrimSpace(rest[end+1:])
		rest = strings.TrimSpace(rest[:open])
		// Accept both kind?(layout) and kind(layout)?.
		switch tail {
		case "":
		case "?":
			rest += "?"
		default:
			return ColumnSpec{}, fmt.Errorf("%w: %q: unexpected %q after layout", ErrInvalidSpec, s, tail)
		}
	}

	if kind, ok := strings.CutSuffix(rest, "?"); ok {
		spec.Nullable = true
		rest = kind
	}

	spec.Kind = ParseKind(rest)
	if spec.Kind == 0 {
		return ColumnSpec{}, fmt.Errorf("%w: %q: unknown kind %q (want one of %s)",
			ErrInvalidSpec, s, rest, strings.Join(KindNames(), ", "))
	}
	if spec.Layout != "" && spec.Kind != KindDate && spec.Kind != KindDuration {
		return ColumnSpec{}, fmt.Errorf("%w: %q: layout only applies to date and duration", ErrInvalidSpec, s)
	}
	if spec.Kind == KindDuration && spec.Layout != "" && !parse.ValidDurationPattern(spec.Layout) {
		return ColumnSpec{}, fmt.Errorf("%w: %q: bad duration pattern", ErrInvalidSpec, s)
	}
	return spec, nil
}

// splitSpecs splits on commas outside parentheses and drops empty items.
func splitSpecs(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	return slices.DeleteFunc(parts, func(p string) bool { return strings.TrimSpace(p) == "" })
}

// headerIndex maps cleaned, lowercased header names to their position. The
// first occurrence of a repeated header wins.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx = dict.AddIfNew(idx, strings.ToLower(cleanCell(h)), i)
	}
	return idx
}

// cleanCell strips spreadsheet export artifacts: surrounding whitespace, an
// Excel text formula wrapper (="...") or a bare leading '=', and surrounding
// quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}
