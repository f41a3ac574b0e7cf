// Package money handles monetary amounts as int64 minor units (cents,
// paise) so that ledger arithmetic never accumulates floating-point drift.
// Convert to decimal only at display or payment-gateway boundaries.
package money

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// Tolerance is the reconciliation tolerance in minor units. Sums that
// differ by at most one minor unit are treated as reconciled.
const Tolerance int64 = 1

// FromDecimal converts a decimal currency value (like 12.34) to minor
// units as int64 safely. Use ONLY when you must parse user-entered
// decimals; prefer accepting minor units directly on the wire.
func FromDecimal(value float64) (int64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow: int64 max ~9e18 => value max ~9e16
	if value > 9e16 || value < -9e16 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	return int64(math.Round(value * 100.0)), nil
}

// ToDecimal converts minor units to a float decimal value. Only for
// boundaries that demand floats (payment payloads, report rendering).
func ToDecimal(minor int64) float64 {
	return float64(minor) / 100.0
}

// Format renders minor units as a plain decimal string without going
// through floats, e.g. -12345 -> "-123.45".
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// WithinTolerance reports whether two amounts differ by at most Tolerance.
func WithinTolerance(a, b int64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= Tolerance
}
