// Package format renders numeric results as text with a bounded number of
// significant digits. Output is locale independent: '.' decimal separator,
// optional leading '-', optional exponent suffix.
package format

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// Sentinel is rendered for NaN and infinite values.
	Sentinel = "---"

	// DefaultPrecision is the number of significant digits used by Default.
	DefaultPrecision = 4

	maxDecimalPlaces = 6
	largeThreshold   = 1e9
	smallThreshold   = 1e-6
)

var largeDecimal = decimal.NewFromFloat(largeThreshold)

// Number formats num with roughly precision significant digits.
//
// Magnitudes >= 1e9 (before or after rounding) or below 1e-6 use exponential
// notation with precision-1 mantissa decimals. Everything else is rounded to
// at most six decimal places with trailing zeros removed. Precision below 1
// is treated as 1.
func Number(num float64, precision int) string {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return Sentinel
	}
	if num == 0 {
		return "0"
	}
	precision = max(1, precision)
	abs := math.Abs(num)
	if abs >= largeThreshold || abs < smallThreshold {
		return exponential(num, precision)
	}

	d := decimal.NewFromFloat(num)
	exp := magnitude(d.Abs())
	var places int
	if abs >= 1 {
		integerDigits := exp + 1
		places = precision - integerDigits
	} else {
		leadingZeros := -exp - 1
		places = leadingZeros + precision
	}
	places = min(places, maxDecimalPlaces)
	rounded := d.Round(int32(places))
	// Rounding can carry a value up to the exponent threshold.
	if rounded.Abs().GreaterThanOrEqual(largeDecimal) {
		return exponential(num, precision)
	}
	return rounded.String()
}

func exponential(num float64, precision int) string {
	return strconv.FormatFloat(num, 'e', precision-1, 64)
}

// Default formats num with DefaultPrecision significant digits.
func Default(num float64) string {
	return Number(num, DefaultPrecision)
}

// Annotated behaves like Number but marks infinite values so they can be
// told apart from errors.
func Annotated(num float64, precision int) string {
	if math.IsInf(num, 0) {
		return Sentinel + " (unbounded)"
	}
	return Number(num, precision)
}

// magnitude returns floor(log10(d)) for a positive decimal, computed from the
// digit count so exact powers of ten are not lost to float error.
func magnitude(d decimal.Decimal) int {
	digits := len(d.Coefficient().String())
	return digits + int(d.Exponent()) - 1
}
