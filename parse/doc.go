// Package parse converts text into primitive values without ever failing.
//
// Every parser first attempts a strict parse and substitutes a default on any
// error, so the result is always a plain value. Most parsers come in two
// forms:
//
//	parse.Int32("  42 ")      // 42
//	parse.Int32("4.2")        // 0 (zero-value default)
//	parse.Int32Or("x", -1)    // -1 (caller default)
//
// A returned default is indistinguishable from a parsed value that happens to
// equal it. Callers that need to know must pick a sentinel default that cannot
// occur in their data.
//
// # Numbers
//
// Integers are base 10 with no separators. Floating-point and decimal parsers
// accept either '.' or ',' as the decimal separator, scientific notation, and
// the accounting form "(12.5)" for negatives. Parsing never depends on the
// process locale.
//
// # Dates and durations
//
// [DateTime] tries a fixed list of unambiguous layouts; [DateTimeExact] takes
// a Go reference layout. Both accept [TimeOptions] for a default value and an
// hour shift. Durations use the invariant "d.hh:mm:ss.fffffff" grammar, or a
// custom pattern via [DurationExact] and [FormatDuration].
//
// # Bytes
//
// [Encode] and [Decode] convert between strings and byte slices using any
// golang.org/x/text encoding. UTF-8 and ASCII have shorthand forms.
package parse
