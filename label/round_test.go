package label

import (
	"math"
	"testing"
)

func TestSignificant(t *testing.T) {
	tests := []struct {
		v    float64
		cs   int
		want string
	}{
		{1.9714285714, 3, "1.97"},
		{1.0714285714, 3, "1.07"},
		{2.0, 3, "2.0"},
		{1.0, 2, "1.0"},
		{-0.5, 2, "-0.5"},
		{123456, 3, "123000.0"},
		{1000, 2, "1000.0"},
		{999.9, 3, "1000.0"},
		{0.00012345, 2, "0.00012"},
		{0.000012345, 2, "1.2e-05"},
		{0.992909, 4, "0.9929"},
		{2.5, 1, "2.0"},
		{3.5, 1, "4.0"},
		{6.02214076e23, 3, "6.02e+23"},
		{0, 3, "0.0"},
		{math.NaN(), 4, "nan"},
		{math.Inf(-1), 4, "-inf"},
	}
	for _, tt := range tests {
		if got := Significant(tt.v, tt.cs); got != tt.want {
			t.Errorf("Significant(%v, %d) = %q, want %q", tt.v, tt.cs, got, tt.want)
		}
	}
}

func TestDecimalExponent(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{1000, 3},
		{999.999, 2},
		{0.001, -3},
		{-42, 1},
		{1e-300, -300},
	}
	for _, tt := range tests {
		if got := decimalExponent(tt.v); got != tt.want {
			t.Errorf("decimalExponent(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
