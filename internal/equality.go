package internal

import (
	"math"
	"math/cmplx"
	"reflect"
)

// Equality decides whether a write is a no-op and whether a window reverted.
type Equality func(a, b any) bool

// DefaultEqual is structural equality, except that two NaNs of the same
// floating-point type are equal. Without that a NaN write would never
// coalesce away. The NaN rule reaches into comparable values (structs, arrays
// and interfaces holding floats). Slices and maps are compared with
// reflect.DeepEqual, where NaN stays unequal to itself.
func DefaultEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	if va.Comparable() && vb.Comparable() {
		return comparableEqual(va, vb)
	}

	return reflect.DeepEqual(a, b)
}

// comparableEqual is == with NaN equal to NaN. x and y have the same type.
func comparableEqual(x, y reflect.Value) bool {
	switch x.Kind() {
	case reflect.Float32, reflect.Float64:
		f, g := x.Float(), y.Float()
		return f == g || (math.IsNaN(f) && math.IsNaN(g))

	case reflect.Complex64, reflect.Complex128:
		f, g := x.Complex(), y.Complex()
		return f == g || (cmplx.IsNaN(f) && cmplx.IsNaN(g))

	case reflect.Array:
		for i := range x.Len() {
			if !comparableEqual(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := range x.NumField() {
			if !comparableEqual(x.Field(i), y.Field(i)) {
				return false
			}
		}
		return true

	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() && y.IsNil()
		}

		x, y = x.Elem(), y.Elem()
		if x.Type() != y.Type() {
			return false
		}
		return comparableEqual(x, y)
	}

	return x.Equal(y)
}
