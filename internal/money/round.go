// Package money holds the rounding rules shared by balance aggregation, transfer
// planning and currency conversion.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Epsilon is the magnitude below which an amount is treated as settled.
const Epsilon = 0.01

// MaxAmount is the largest amount a single expense, payment or share may carry,
// in any currency.
const MaxAmount = 1e12

var half = decimal.NewFromFloat(0.5)

// RoundCents rounds v to 2 decimal places, half-up on the cent boundary
// (1.005 -> 1.01, -2.345 -> -2.34).
func RoundCents(v float64) float64 {
	return Round(v, 2)
}

// Round rounds v to the given number of decimal places, half-up.
//
// The value is taken from its shortest decimal representation, so inputs such as
// 1.005 round the way they read rather than the way they are stored in binary.
// NaN and infinities are returned unchanged.
func Round(v float64, places int32) float64 {
	if !Finite(v) {
		return v
	}
	d := decimal.NewFromFloat(v).Shift(places).Add(half).Floor().Shift(-places)
	return d.InexactFloat64()
}

// IsZero reports whether v is within Epsilon of zero.
func IsZero(v float64) bool {
	return v < Epsilon && v > -Epsilon
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// InRange reports whether v is a finite amount in (0, MaxAmount].
func InRange(v float64) bool {
	return v > 0 && v <= MaxAmount
}
