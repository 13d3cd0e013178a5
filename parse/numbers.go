package parse

// numbers.go converts text to integers, floats and decimals.
//
// Integer parsing is strict: base 10, optional sign, nothing else besides
// surrounding whitespace. Float and decimal parsing normalizes the messier
// inputs seen in hand-edited files:
//   - ',' or '.' as the decimal separator
//   - scientific notation (1.7E-3)
//   - accounting negatives "(123.45)"
//   - currency symbols (decimal only)

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex validates a number after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// currencySymbols are stripped before decimal parsing.
var currencySymbols = []string{"$", "€", "£", "¤"}

// Int parses a base-10 int, returning 0 on failure.
func Int(s string) int { return IntOr(s, 0) }

// IntOr parses a base-10 int, returning def on failure.
func IntOr(s string, def int) int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, strconv.IntSize)
	if err != nil {
		return def
	}
	return int(n)
}

// Int32 parses a base-10 int32, returning 0 on failure.
func Int32(s string) int32 { return Int32Or(s, 0) }

// Int32Or parses a base-10 int32, returning def on failure.
// Out-of-range values fail rather than saturate.
func Int32Or(s string, def int32) int32 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}

// Int64 parses a base-10 int64, returning 0 on failure.
func Int64(s string) int64 { return Int64Or(s, 0) }

// Int64Or parses a base-10 int64, returning def on failure.
func Int64Or(s string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return def
	}
	return n
}

// Float64 parses a float64, returning 0 on failure.
func Float64(s string) float64 { return Float64Or(s, 0) }

// Float64Or parses a float64, returning def on failure.
func Float64Or(s string, def float64) float64 {
	clean, ok := cleanNumber(s, false)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return def
	}
	return f
}

// Float32 parses a float32, returning 0 on failure.
func Float32(s string) float32 { return Float32Or(s, 0) }

// Float32Or parses a float32, returning def on failure.
// Values outside the float32 range fail.
func Float32Or(s string, def float32) float32 {
	clean, ok := cleanNumber(s, false)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(clean, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// Decimal parses a decimal, returning zero on failure.
func Decimal(s string) decimal.Decimal { return DecimalOr(s, decimal.Zero) }

// DecimalOr parses a decimal, returning def on failure.
// Unlike the float parsers, currency symbols are tolerated. Values above
// 79228162514264337593543950335 in magnitude fail; digits past the 28th
// decimal place are rounded off.
func DecimalOr(s string, def decimal.Decimal) decimal.Decimal {
	clean, ok := cleanNumber(s, true)
	if !ok {
		return def
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return def
	}
	d, ok = boundDecimal(d)
	if !ok {
		return def
	}
	return d
}

// Decimal results keep to the range and scale of a 96-bit decimal.
const maxDecimalScale = 28

var maxDecimal = decimal.RequireFromString("79228162514264337593543950335")

// boundDecimal rounds away digits beyond maxDecimalScale and rejects values
// above maxDecimal. The exponent is checked before any rescaling so huge
// exponents cost nothing.
func boundDecimal(d decimal.Decimal) (decimal.Decimal, bool) {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return decimal.Zero, true
	}
	// magnitude is the power of ten just above |d|.
	magnitude := int64(len(coef.Abs(coef).String())) + int64(d.Exponent())
	switch {
	case magnitude > int64(len(maxDecimal.String())):
		return decimal.Decimal{}, false
	case magnitude < -maxDecimalScale:
		return decimal.Zero, true
	}
	if d.Exponent() < -maxDecimalScale {
		d = d.Round(maxDecimalScale)
	}
	if d.Abs().GreaterThan(maxDecimal) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// cleanNumber normalizes s into the form accepted by numericRegex.
// Returns false if the result is not a plain number.
func cleanNumber(s string, stripCurrency bool) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	if stripCurrency {
		for _, sym := range currencySymbols {
			s = strings.ReplaceAll(s, sym, "")
		}
		s = strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, ",", ".")

	if isNegative {
		if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
			return "", false
		}
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return "", false
	}
	return s, true
}
