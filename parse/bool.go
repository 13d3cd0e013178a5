package parse

import "strings"

// Bool converts text to a boolean.
//
// "yes" and "true" are true, "no" and "false" are false (any case, trimmed).
// Empty text is false. Anything else is parsed as a decimal and is true only
// if strictly positive, so "1" and "0,5" are true while "0", "-1" and "abc"
// are false.
func Bool(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	switch strings.ToLower(s) {
	case "yes", "true":
		return true
	case "no", "false":
		return false
	}

	return Decimal(s).IsPositive()
}
