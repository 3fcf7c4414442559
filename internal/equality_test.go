package internal

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

type celsius float64

type point struct{ X, Y int }

type withSlice struct{ Tags []string }

type sample struct {
	label string
	value float64
}

type boxed struct{ V any }

func TestDefaultEqual(t *testing.T) {
	nan := math.NaN()
	p := &point{1, 2}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "equal ints", a: 1, b: 1, want: true},
		{name: "different ints", a: 1, b: 2, want: false},
		{name: "different types", a: 1, b: int64(1), want: false},
		{name: "nil and nil", a: nil, b: nil, want: true},
		{name: "nil and value", a: nil, b: 0, want: false},
		{name: "float64 NaN", a: nan, b: math.NaN(), want: true},
		{name: "float32 NaN", a: float32(nan), b: float32(nan), want: true},
		{name: "named float NaN", a: celsius(nan), b: celsius(nan), want: true},
		{name: "NaN of different types", a: nan, b: float32(nan), want: false},
		{name: "NaN and number", a: nan, b: 1.0, want: false},
		{name: "complex NaN", a: cmplx.NaN(), b: complex(0, nan), want: true},
		{name: "negative zero", a: 0.0, b: math.Copysign(0, -1), want: true},
		{name: "equal structs", a: point{1, 2}, b: point{1, 2}, want: true},
		{name: "same pointer", a: p, b: p, want: true},
		{name: "distinct pointers", a: p, b: &point{1, 2}, want: false},
		{name: "equal slices", a: []int{1, 2}, b: []int{1, 2}, want: true},
		{name: "different slices", a: []int{1, 2}, b: []int{2, 1}, want: false},
		{name: "equal maps", a: map[string]int{"a": 1}, b: map[string]int{"a": 1}, want: true},
		{name: "struct with slice", a: withSlice{[]string{"x"}}, b: withSlice{[]string{"x"}}, want: true},
		{name: "strings", a: "go", b: "go", want: true},
		{name: "NaN in struct", a: sample{"t", nan}, b: sample{"t", nan}, want: true},
		{name: "NaN in struct, other field differs", a: sample{"t", nan}, b: sample{"u", nan}, want: false},
		{name: "NaN in array", a: [2]float64{nan, 1}, b: [2]float64{nan, 1}, want: true},
		{name: "arrays differ", a: [2]float64{nan, 1}, b: [2]float64{nan, 2}, want: false},
		{name: "NaN behind interface field", a: boxed{nan}, b: boxed{nan}, want: true},
		{name: "interface fields of different types", a: boxed{1}, b: boxed{1.0}, want: false},
		{name: "nil interface fields", a: boxed{}, b: boxed{}, want: true},
		{name: "nil and set interface fields", a: boxed{}, b: boxed{0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, DefaultEqual(tt.b, tt.a))
		})
	}
}
