package table

import (
	"fmt"
	"math"
	"reflect"
)

// convertCell coerces v into col's type.
//
// Rules, in order:
//   - nil, a nil pointer and Null become Null (or fail if not allowed)
//   - a value assignable to the column type is stored as-is
//   - a non-nil pointer is dereferenced and retried
//   - numeric kinds convert to each other when the conversion is lossless
//   - a float narrows to float32 with rounding when it is within range
func convertCell(v any, col Column) (any, error) {
	if v == nil || IsNull(v) {
		return nullCell(col)
	}

	rv := reflect.ValueOf(v)
	for {
		if rv.Type().AssignableTo(col.Type) {
			return rv.Interface(), nil
		}
		if rv.Kind() != reflect.Pointer {
			break
		}
		if rv.IsNil() {
			return nullCell(col)
		}
		rv = rv.Elem()
	}

	if isFloat(rv.Kind()) && col.Type.Kind() == reflect.Float32 {
		f := rv.Float()
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("%v does not fit %s: %w", v, col.Type, ErrTypeMismatch)
		}
		return rv.Convert(col.Type).Interface(), nil
	}

	if isNumeric(rv.Kind()) && isNumeric(col.Type.Kind()) {
		converted := rv.Convert(col.Type)
		if converted.Convert(rv.Type()).Equal(rv) && sameSign(rv, converted) {
			return converted.Interface(), nil
		}
		return nil, fmt.Errorf("%v does not fit %s: %w", v, col.Type, ErrTypeMismatch)
	}

	return nil, fmt.Errorf("%T is not %s: %w", v, col.Type, ErrTypeMismatch)
}

func nullCell(col Column) (any, error) {
	if !col.AllowNull {
		return nil, ErrNullNotAllowed
	}
	return Null, nil
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// sameSign guards against int -> uint wraparound that survives a round trip.
func sameSign(a, b reflect.Value) bool {
	return isNegative(a) == isNegative(b)
}

func isNegative(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	}
	return false
}
