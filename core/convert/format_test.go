package convert

import (
	"math"
	"testing"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil is empty", nil, ""},
		{"string passthrough", "a,b", "a,b"},
		{"int", int32(42), "42"},
		{"float", 1.5, "1.5"},
		{"nan literal", math.NaN(), "nan"},
		{"positive infinity", math.Inf(1), "inf"},
		{"negative infinity", math.Inf(-1), "-inf"},
		{"float32 nan", float32(math.NaN()), "nan"},
		{"array", []any{1.0, nil, math.Inf(1)}, "[1,null,inf]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatArray(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want string
	}{
		{"empty", nil, "[]"},
		{"numeric with null", []any{4.0, nil}, "[4,null]"},
		{"non-finite", []any{math.NaN(), math.Inf(1), math.Inf(-1)}, "[nan,inf,-inf]"},
		{"strings quoted", []any{"a", "b,c", nil}, `["a","b,c",null]`},
		{"bools", []any{true, false}, "[true,false]"},
		{"ints", []any{int8(-1), uint64(9)}, "[-1,9]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatArray(tt.in); got != tt.want {
				t.Errorf("FormatArray(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
