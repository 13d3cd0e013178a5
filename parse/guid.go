package parse

import (
	"strings"

	"github.com/google/uuid"
)

// GUID parses a 128-bit identifier, returning uuid.Nil on failure.
//
// Accepted forms (hex digits in any case, surrounding whitespace ignored):
//
//	0f8fad5bd9cb469fa16570867728950e          32 digits
//	0f8fad5b-d9cb-469f-a165-70867728950e      dashed
//	{0f8fad5b-d9cb-469f-a165-70867728950e}    braced
//	(0f8fad5b-d9cb-469f-a165-70867728950e)    parenthesized
//	urn:uuid:0f8fad5b-d9cb-469f-a165-70867728950e
//	{0x0f8fad5b,0xd9cb,0x469f,{0xa1,0x65,0x70,0x86,0x77,0x28,0x95,0x0e}}
func GUID(s string) uuid.UUID {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil
	}

	if strings.HasPrefix(s, "{0x") || strings.HasPrefix(s, "{0X") {
		return parseHexStruct(s)
	}

	switch {
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"),
		strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		s = s[1 : len(s)-1]
		if len(s) != 36 {
			return uuid.Nil
		}
	case len(s) > len(urnPrefix) && strings.EqualFold(s[:len(urnPrefix)], urnPrefix):
		s = s[len(urnPrefix):]
		if len(s) != 36 {
			return uuid.Nil
		}
	case len(s) != 32 && len(s) != 36:
		return uuid.Nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

const urnPrefix = "urn:uuid:"

// hexStructWidths is the digit count of each 0x group in the struct form:
// one uint32, two uint16 and eight bytes.
var hexStructWidths = [...]int{8, 4, 4, 2, 2, 2, 2, 2, 2, 2, 2}

// parseHexStruct handles {0xAAAAAAAA,0xBBBB,0xCCCC,{0xDD,0xDD,...}}.
// Each group is left-padded to its full width and the result is re-parsed
// as the 32-digit form.
func parseHexStruct(s string) uuid.UUID {
	if !strings.HasSuffix(s, "}}") {
		return uuid.Nil
	}
	body := s[1 : len(s)-2]

	head, tail, ok := strings.Cut(body, "{")
	if !ok || !strings.HasSuffix(head, ",") {
		return uuid.Nil
	}
	groups := append(strings.Split(strings.TrimSuffix(head, ","), ","), strings.Split(tail, ",")...)
	if len(groups) != len(hexStructWidths) {
		return uuid.Nil
	}

	var b strings.Builder
	b.Grow(32)
	for i, g := range groups {
		g = strings.TrimSpace(g)
		if len(g) < 3 || (g[:2] != "0x" && g[:2] != "0X") {
			return uuid.Nil
		}
		digits := g[2:]
		width := hexStructWidths[i]
		if len(digits) > width {
			return uuid.Nil
		}
		b.WriteString(strings.Repeat("0", width-len(digits)))
		b.WriteString(digits)
	}

	id, err := uuid.Parse(b.String())
	if err != nil {
		return uuid.Nil
	}
	return id
}
