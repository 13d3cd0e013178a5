package parse

// datetime.go converts text to time.Time.
//
// The flexible parser tries a fixed list of layouts in order, most specific
// first, so the result never depends on the process locale. Ambiguous
// slash-separated dates are read month-first (the invariant convention).

import (
	"strings"
	"time"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
const TwoDigitYearPivot = 20

// TimeOptions tunes DateTimeWith and DateTimeExactWith.
type TimeOptions struct {
	// Default is returned unchanged when parsing fails (default: zero time).
	Default time.Time

	// ShiftHours is added to a successfully parsed time, for time zone
	// adjustment. It is not applied to Default.
	ShiftHours int

	// Location is used for text that carries no zone (default: UTC).
	Location *time.Location
}

// Layouts tried by DateTime, split by year format for pivot handling.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		time.RFC1123Z,
		time.RFC1123,
		time.RFC850,
		time.RubyDate,
		time.UnixDate,
	}
	fourDigitYearLayouts = []string{
		"2006-01-02T15:04:05.9999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-1-2 15:04:05.9999999",
		"2006-1-2 15:04:05",
		"2006-1-2 15:04",
		"2006-1-2",
		"2006/1/2 15:04:05",
		"2006/1/2",
		"2006.1.2",
		"1/2/2006 15:04:05.9999999",
		"1/2/2006 15:04:05",
		"1/2/2006 3:04:05 PM",
		"1/2/2006 15:04",
		"1/2/2006 3:04 PM",
		"1/2/2006",
		"1-2-2006",
		"2.1.2006",
		"Jan 2, 2006 15:04:05",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006 15:04:05",
		"2 Jan 2006",
		"2 January 2006",
		"Monday, 02 January 2006 15:04:05",
		"Monday, 02 January 2006",
		time.ANSIC,
	}
	twoDigitYearLayouts = []string{
		"1/2/06 15:04:05",
		"1/2/06",
		"1-2-06",
		"2.1.06",
	}
)

// DateTime parses text with the flexible layout list, returning the zero
// time on failure.
func DateTime(s string) time.Time {
	return DateTimeWith(s, TimeOptions{})
}

// DateTimeWith parses text with the flexible layout list.
func DateTimeWith(s string, opts TimeOptions) time.Time {
	t, ok := parseFlexible(strings.TrimSpace(s), opts.location())
	if !ok {
		return opts.Default
	}
	return opts.shift(t)
}

// DateTimeExact parses text that must match layout exactly, returning the
// zero time on failure. layout uses Go reference-time notation.
func DateTimeExact(s, layout string) time.Time {
	return DateTimeExactWith(s, layout, TimeOptions{})
}

// DateTimeExactWith parses text that must match layout exactly.
// Surrounding whitespace is not trimmed.
func DateTimeExactWith(s, layout string, opts TimeOptions) time.Time {
	if s == "" || layout == "" {
		return opts.Default
	}
	t, err := time.ParseInLocation(layout, s, opts.location())
	if err != nil {
		return opts.Default
	}
	return opts.shift(t)
}

func parseFlexible(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

func (o TimeOptions) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o TimeOptions) shift(t time.Time) time.Time {
	if o.ShiftHours == 0 {
		return t
	}
	return t.Add(time.Duration(o.ShiftHours) * time.Hour)
}
