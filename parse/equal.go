package parse

import "math"

// EqualFloat64 reports whether a and b differ by less than the smallest
// positive float64. In practice that only tolerates a difference of zero,
// but it also treats +0 and -0 as equal and never panics on NaN.
func EqualFloat64(a, b float64) bool {
	return math.Abs(a-b) < math.SmallestNonzeroFloat64
}

// EqualFloat32 reports whether a and b differ by less than the smallest
// positive float32.
func EqualFloat32(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) < math.SmallestNonzeroFloat32
}

// NearZeroFloat64 is EqualFloat64(a, 0).
func NearZeroFloat64(a float64) bool { return EqualFloat64(a, 0) }

// NearZeroFloat32 is EqualFloat32(a, 0).
func NearZeroFloat32(a float32) bool { return EqualFloat32(a, 0) }
