package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/S-e-t/SimpleExtensions/internal/importer"
	"github.com/S-e-t/SimpleExtensions/parse"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseResponse is the body of GET /api/parse/{kind}.
type ParseResponse struct {
	Kind  string `json:"kind"`
	Input string `json:"input"`
	Value any    `json:"value"`
	Name  string `json:"name,omitempty"`
}

// handleParse runs one parser over the value query parameter.
//
// Query parameters:
//   - value: text to parse
//   - default: text parsed with the same kind and used on failure
//   - layout: exact layout for date, exact pattern for duration
//   - shift, tz: hour shift and zone name for date
//   - names, match_case: member names (valued 1..n) and case mode for enum
//   - encoding: WHATWG encoding name for bytes (default utf-8)
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kindName := strings.ToLower(chi.URLParam(r, "kind"))
	value := q.Get("value")
	def := q.Get("default")
	layout := q.Get("layout")

	resp := ParseResponse{Kind: kindName, Input: value}

	switch kindName {
	case "enum":
		set, err := enumFromNames(q.Get("names"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		defValue := set.Parse(def)
		var n int
		if matchCase, _ := strconv.ParseBool(q.Get("match_case")); matchCase {
			n = set.ParseExact(value, defValue)
		} else {
			n = set.ParseOr(value, defValue)
		}
		resp.Value = n
		resp.Name, _ = set.Name(n)

	case "bytes":
		enc, err := parse.LookupEncoding(orDefault(q.Get("encoding"), "utf-8"))
		if err != nil {
			respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		b, err := parse.Encode(value, enc)
		if err != nil {
			respondError(w, r, err)
			return
		}
		resp.Value = b

	default:
		kind := importer.ParseKind(kindName)
		if kind == 0 {
			respondError(w, r, fmt.Errorf("%w: unknown kind %q", errBadRequest, kindName))
			return
		}
		v, err := parseKind(kind, value, def, layout, q.Get("shift"), q.Get("tz"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		resp.Value = v
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func parseKind(kind importer.Kind, value, def, layout, shift, tz string) (any, error) {
	switch kind {
	case importer.KindString:
		return orDefault(value, def), nil
	case importer.KindInt:
		return parse.Int32Or(value, parse.Int32(def)), nil
	case importer.KindLong:
		return parse.Int64Or(value, parse.Int64(def)), nil
	case importer.KindDouble:
		return parse.Float64Or(value, parse.Float64(def)), nil
	case importer.KindFloat:
		return parse.Float32Or(value, parse.Float32(def)), nil
	case importer.KindDecimal:
		return parse.DecimalOr(value, parse.Decimal(def)), nil
	case importer.KindBool:
		return parse.Bool(value), nil
	case importer.KindGUID:
		if g := parse.GUID(value); g != uuid.Nil {
			return g, nil
		}
		return parse.GUID(def), nil
	case importer.KindDate:
		opts := parse.TimeOptions{ShiftHours: parse.Int(shift)}
		if tz != "" {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return nil, fmt.Errorf("%w: unknown time zone %q", errBadRequest, tz)
			}
			opts.Location = loc
		}
		if layout != "" {
			opts.Default = parse.DateTimeExactWith(def, layout, parse.TimeOptions{Location: opts.Location})
			return parse.DateTimeExactWith(value, layout, opts), nil
		}
		opts.Default = parse.DateTimeWith(def, parse.TimeOptions{Location: opts.Location})
		return parse.DateTimeWith(value, opts), nil
	case importer.KindDuration:
		if layout != "" {
			if !parse.ValidDurationPattern(layout) {
				return nil, fmt.Errorf("%w: bad duration pattern %q", errBadRequest, layout)
			}
			d := parse.DurationExactOr(value, layout, parse.DurationExact(def, layout))
			return parse.FormatDuration(d, layout), nil
		}
		return parse.DurationOr(value, parse.Duration(def)).String(), nil
	}
	return nil, fmt.Errorf("%w: unsupported kind %s", errBadRequest, kind)
}

// enumFromNames builds an enum whose members are valued 1..n in order.
func enumFromNames(names string) (*parse.EnumSet[int], error) {
	members := make(map[string]int)
	for i, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty enum name at position %d", errBadRequest, i+1)
		}
		if _, dup := members[name]; dup {
			return nil, fmt.Errorf("%w: duplicate enum name %q", errBadRequest, name)
		}
		members[name] = i + 1
	}
	return parse.NewEnumSet(members), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
