package label

import (
	"math"
	"strconv"
	"strings"
)

// decimalExponent returns floor(log10(|v|)) computed from the shortest
// decimal representation, so exact powers of ten are never off by one.
func decimalExponent(v float64) int {
	s := strconv.FormatFloat(math.Abs(v), 'e', -1, 64)
	exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	return exp
}

// RoundSignificant rounds v to cs significant digits: round(v, cs-floor(log10|v|)-1).
// Ties go to the even neighbour of the exact binary value. Zero, NaN and
// infinities are returned unchanged.
func RoundSignificant(v float64, cs int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	digits := cs - decimalExponent(v) - 1
	if digits >= 0 {
		r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
		if err != nil {
			return v
		}
		return r
	}
	p := math.Pow(10, float64(-digits))
	return math.RoundToEven(v/p) * p
}

// FormatFloat renders v the way a scientist reads it: the shortest
// representation, always with a decimal point ("2.0", "0.0012"), switching
// to exponent form below 1e-4 and from 1e16 on ("1.2e-05").
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}
	a := math.Abs(v)
	if a < 1e-4 || a >= 1e16 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Significant rounds v to cs significant digits and formats it.
func Significant(v float64, cs int) string {
	return FormatFloat(RoundSignificant(v, cs))
}
