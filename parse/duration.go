package parse

// duration.go converts text to time.Duration.
//
// Generic form (surrounding whitespace ignored, optional leading '-'):
//
//	d                      whole days
//	h:mm[:ss[.fffffff]]    hours 0-23, minutes/seconds 0-59
//	d.h:mm[:ss[.fffffff]]  with days
//	d:h:mm:ss[.fffffff]    with days, colon separated
//
// Go duration text ("1h30m") is accepted as a fallback.
//
// Exact form uses a custom pattern, see DurationExact.

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// maxFractionDigits is the resolution of duration fractions (100ns ticks).
const maxFractionDigits = 7

// Duration parses the generic duration grammar, returning 0 on failure.
func Duration(s string) time.Duration { return DurationOr(s, 0) }

// DurationOr parses the generic duration grammar, returning def on failure.
func DurationOr(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if d, ok := parseClock(s); ok {
		return d
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func parseClock(s string) (time.Duration, bool) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var days, hours, minutes, seconds int64
	var frac time.Duration
	var ok bool

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		days, ok = digits(parts[0], 1, 8)
		if !ok {
			return 0, false
		}
	case 2, 3:
		head := parts[0]
		if d, h, found := strings.Cut(head, "."); found {
			if days, ok = digits(d, 1, 8); !ok {
				return 0, false
			}
			head = h
		}
		if hours, ok = digits(head, 1, 2); !ok {
			return 0, false
		}
		if minutes, ok = digits(parts[1], 1, 2); !ok {
			return 0, false
		}
		if len(parts) == 3 {
			if seconds, frac, ok = secondsField(parts[2]); !ok {
				return 0, false
			}
		}
	case 4:
		if days, ok = digits(parts[0], 1, 8); !ok {
			return 0, false
		}
		if hours, ok = digits(parts[1], 1, 2); !ok {
			return 0, false
		}
		if minutes, ok = digits(parts[2], 1, 2); !ok {
			return 0, false
		}
		if seconds, frac, ok = secondsField(parts[3]); !ok {
			return 0, false
		}
	default:
		return 0, false
	}

	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, false
	}

	d, ok := sumDuration(
		scale(days, day),
		time.Duration(hours)*time.Hour,
		time.Duration(minutes)*time.Minute,
		time.Duration(seconds)*time.Second,
		frac,
	)
	if !ok {
		return 0, false
	}
	if neg {
		d = -d
	}
	return d, true
}

// maxDays is the largest whole day count a time.Duration can hold.
const maxDays = int64(math.MaxInt64 / int64(day))

// scale returns n*unit, or -1 when n is negative or the product overflows.
func scale(n int64, unit time.Duration) time.Duration {
	if n < 0 || n > math.MaxInt64/int64(unit) {
		return -1
	}
	return time.Duration(n) * unit
}

// sumDuration adds non-negative parts, failing on a negative part or overflow.
func sumDuration(parts ...time.Duration) (time.Duration, bool) {
	var total time.Duration
	for _, p := range parts {
		if p < 0 || total > math.MaxInt64-p {
			return 0, false
		}
		total += p
	}
	return total, true
}

// secondsField parses "ss" or "ss.fffffff".
func secondsField(s string) (int64, time.Duration, bool) {
	whole, fracText, hasFrac := strings.Cut(s, ".")
	sec, ok := digits(whole, 1, 2)
	if !ok {
		return 0, 0, false
	}
	if !hasFrac {
		return sec, 0, true
	}
	frac, ok := fraction(fracText, 1, maxFractionDigits)
	if !ok {
		return 0, 0, false
	}
	return sec, frac, true
}

// digits parses an all-digit string of lo..hi characters.
func digits(s string, lo, hi int) (int64, bool) {
	if len(s) < lo || len(s) > hi {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// fraction parses the digits after a decimal point as a fraction of a second.
func fraction(s string, lo, hi int) (time.Duration, bool) {
	n, ok := digits(s, lo, hi)
	if !ok {
		return 0, false
	}
	for i := len(s); i < 9; i++ {
		n *= 10
	}
	return time.Duration(n), true
}

// DurationExact parses text that must match pattern exactly, returning 0 on
// failure.
//
// Pattern tokens:
//
//	d..dddddddd  days, at least as many digits as letters
//	h, hh        hours 0-23 (one or two digits / exactly two)
//	m, mm        minutes 0-59
//	s, ss        seconds 0-59
//	f..fffffff   fraction of a second, exactly that many digits
//	F..FFFFFFF   fraction of a second, up to that many digits
//	\c           literal character c
//	'...' "..."  literal text
//
// Any other letter makes the pattern invalid. Literal punctuation must be
// escaped or quoted, so "hh:mm" is written `hh\:mm`.
func DurationExact(s, pattern string) time.Duration {
	return DurationExactOr(s, pattern, 0)
}

// DurationExactOr parses text that must match pattern exactly, returning def
// on failure.
func DurationExactOr(s, pattern string, def time.Duration) time.Duration {
	tokens, ok := compilePattern(pattern)
	if !ok || s == "" {
		return def
	}
	d, ok := matchPattern(s, tokens)
	if !ok {
		return def
	}
	return d
}

// ValidDurationPattern reports whether pattern is usable with DurationExact
// and FormatDuration.
func ValidDurationPattern(pattern string) bool {
	_, ok := compilePattern(pattern)
	return ok
}

// FormatDuration renders d with the DurationExact pattern syntax.
// Returns "" if the pattern is invalid. The sign is not rendered.
func FormatDuration(d time.Duration, pattern string) string {
	tokens, ok := compilePattern(pattern)
	if !ok {
		return ""
	}
	if d < 0 {
		d = -d
	}

	days := int64(d / day)
	hours := int64(d % day / time.Hour)
	minutes := int64(d % time.Hour / time.Minute)
	seconds := int64(d % time.Minute / time.Second)
	nanos := int64(d % time.Second)

	var b strings.Builder
	for _, tok := range tokens {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(tok.text)
		case tokDays:
			b.WriteString(pad(days, tok.width))
		case tokHours:
			b.WriteString(pad(hours, tok.width))
		case tokMinutes:
			b.WriteString(pad(minutes, tok.width))
		case tokSeconds:
			b.WriteString(pad(seconds, tok.width))
		case tokFraction, tokOptFraction:
			text := pad(nanos, 9)[:tok.width]
			if tok.kind == tokOptFraction {
				text = strings.TrimRight(text, "0")
			}
			b.WriteString(text)
		}
	}
	return b.String()
}

func pad(n int64, width int) string {
	s := strconv.FormatInt(n, 10)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokDays
	tokHours
	tokMinutes
	tokSeconds
	tokFraction
	tokOptFraction
)

type patternToken struct {
	kind  tokenKind
	width int
	text  string
}

// widthLimits caps the repeat count of each field letter.
var widthLimits = map[byte]struct {
	kind tokenKind
	max  int
}{
	'd': {tokDays, 8},
	'h': {tokHours, 2},
	'm': {tokMinutes, 2},
	's': {tokSeconds, 2},
	'f': {tokFraction, maxFractionDigits},
	'F': {tokOptFraction, maxFractionDigits},
}

func compilePattern(p string) ([]patternToken, bool) {
	if p == "" {
		return nil, false
	}

	var tokens []patternToken
	seen := make(map[tokenKind]bool)
	for i := 0; i < len(p); {
		c := p[i]
		switch {
		case c == '\\':
			if i+1 >= len(p) {
				return nil, false
			}
			tokens = append(tokens, patternToken{kind: tokLiteral, text: p[i+1 : i+2]})
			i += 2
		case c == '\'' || c == '"':
			end := strings.IndexByte(p[i+1:], c)
			if end < 0 {
				return nil, false
			}
			tokens = append(tokens, patternToken{kind: tokLiteral, text: p[i+1 : i+1+end]})
			i += end + 2
		default:
			limit, ok := widthLimits[c]
			if !ok {
				return nil, false
			}
			j := i
			for j < len(p) && p[j] == c {
				j++
			}
			width := j - i
			if width > limit.max || seen[limit.kind] {
				return nil, false
			}
			seen[limit.kind] = true
			tokens = append(tokens, patternToken{kind: limit.kind, width: width})
			i = j
		}
	}
	return tokens, true
}

func matchPattern(s string, tokens []patternToken) (time.Duration, bool) {
	var d time.Duration
	pos := 0
	for _, tok := range tokens {
		if tok.kind == tokLiteral {
			if !strings.HasPrefix(s[pos:], tok.text) {
				return 0, false
			}
			pos += len(tok.text)
			continue
		}

		// Greedy digit run, bounded by the field's maximum.
		lo, hi := fieldWidth(tok)
		end := pos
		for end < len(s) && end-pos < hi && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		field := s[pos:end]
		pos = end

		switch tok.kind {
		case tokFraction, tokOptFraction:
			if tok.kind == tokOptFraction && field == "" {
				continue
			}
			frac, ok := fraction(field, lo, hi)
			if !ok {
				return 0, false
			}
			if d, ok = sumDuration(d, frac); !ok {
				return 0, false
			}
		default:
			n, ok := digits(field, lo, hi)
			if !ok {
				return 0, false
			}
			var part time.Duration
			switch tok.kind {
			case tokDays:
				if n > maxDays {
					return 0, false
				}
				part = scale(n, day)
			case tokHours:
				if n > 23 {
					return 0, false
				}
				part = time.Duration(n) * time.Hour
			case tokMinutes:
				if n > 59 {
					return 0, false
				}
				part = time.Duration(n) * time.Minute
			case tokSeconds:
				if n > 59 {
					return 0, false
				}
				part = time.Duration(n) * time.Second
			}
			if d, ok = sumDuration(d, part); !ok {
				return 0, false
			}
		}
	}

	if pos != len(s) {
		return 0, false
	}
	return d, true
}

// fieldWidth returns the accepted digit count range for a field token.
func fieldWidth(tok patternToken) (int, int) {
	switch tok.kind {
	case tokDays:
		return tok.width, 8
	case tokFraction:
		return tok.width, tok.width
	case tokOptFraction:
		return 1, tok.width
	default:
		if tok.width == 2 {
			return 2, 2
		}
		return 1, 2
	}
}
