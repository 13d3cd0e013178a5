package parse

import (
	"slices"
	"strconv"
	"strings"
)

// Integer is the set of underlying types an enum value may have.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// EnumSet is a fixed set of named values of an integer-based enum type.
// It is immutable after construction and safe for concurrent use.
//
//	type Color int
//	const (Red Color = 1; Green Color = 2)
//	var colors = parse.NewEnumSet(map[string]Color{"Red": Red, "Green": Green})
//
//	colors.Parse(" green ")         // Green
//	colors.ParseExact("green", Red) // Red: case differs
//	colors.Parse("2")               // Green: numeric text naming a member
//	colors.Parse("7")               // 0: not a member
type EnumSet[T Integer] struct {
	exact   map[string]T
	folded  map[string]T
	names   map[T]string
	ordered []T
}

// NewEnumSet builds a set from a name -> value mapping.
// When two names share a value, the alphabetically first is its canonical name.
func NewEnumSet[T Integer](members map[string]T) *EnumSet[T] {
	e := &EnumSet[T]{
		exact:  make(map[string]T, len(members)),
		folded: make(map[string]T, len(members)),
		names:  make(map[T]string, len(members)),
	}

	keys := make([]string, 0, len(members))
	for name := range members {
		keys = append(keys, name)
	}
	slices.Sort(keys)

	for _, name := range keys {
		v := members[name]
		e.exact[name] = v
		if _, dup := e.folded[strings.ToLower(name)]; !dup {
			e.folded[strings.ToLower(name)] = v
		}
		if _, dup := e.names[v]; !dup {
			e.names[v] = name
			e.ordered = append(e.ordered, v)
		}
	}
	slices.Sort(e.ordered)

	return e
}

// Parse matches s case-insensitively, returning the zero value on failure.
func (e *EnumSet[T]) Parse(s string) T {
	var zero T
	return e.ParseOr(s, zero)
}

// ParseOr matches s case-insensitively, returning def on failure.
func (e *EnumSet[T]) ParseOr(s string, def T) T {
	if v, ok := e.lookup(s, false); ok {
		return v
	}
	return def
}

// ParseExact matches s with exact case, returning def on failure.
func (e *EnumSet[T]) ParseExact(s string, def T) T {
	if v, ok := e.lookup(s, true); ok {
		return v
	}
	return def
}

// IsDefined reports whether v is a member of the set.
func (e *EnumSet[T]) IsDefined(v T) bool {
	_, ok := e.names[v]
	return ok
}

// Name returns the canonical name of v.
func (e *EnumSet[T]) Name(v T) (string, bool) {
	name, ok := e.names[v]
	return name, ok
}

// Names returns the canonical names ordered by value.
func (e *EnumSet[T]) Names() []string {
	out := make([]string, len(e.ordered))
	for i, v := range e.ordered {
		out[i] = e.names[v]
	}
	return out
}

func (e *EnumSet[T]) lookup(s string, matchCase bool) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return zero, false
	}

	if matchCase {
		if v, ok := e.exact[s]; ok {
			return v, true
		}
	} else if v, ok := e.folded[strings.ToLower(s)]; ok {
		return v, true
	}

	// Numeric text is accepted only when it names a defined member.
	if v, ok := e.numeric(s); ok && e.IsDefined(v) {
		return v, true
	}
	return zero, false
}

func (e *EnumSet[T]) numeric(s string) (T, bool) {
	if c := s[0]; c != '-' && c != '+' && (c < '0' || c > '9') {
		return 0, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		v := T(n)
		if int64(v) != n || (n < 0 && v > 0) {
			return 0, false
		}
		return v, true
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		v := T(n)
		if uint64(v) != n {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
