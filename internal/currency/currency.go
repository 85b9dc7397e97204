// Package currency converts amounts into a group's reference currency using a fixed
// exchange rate table.
package currency

import (
	"maps"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultBase is the reference currency code used when none is configured.
const DefaultBase = "ILS"

// DefaultRates is the built-in table, in units of foreign currency per one unit of
// DefaultBase. Dividing a foreign amount by its rate converts it to the base.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"ILS": 1,
		"USD": 0.273,
		"EUR": 0.252,
		"GBP": 0.215,
		"JPY": 41.5,
		"JOD": 0.194,
		"HUF": 100.5,
	}
}

// Converter normalizes amounts into its base currency. It is read-only after
// construction and safe for concurrent use.
type Converter struct {
	base  string
	rates map[string]float64
}

// NewConverter creates a Converter for the given base code and rate table.
// An empty base falls back to DefaultBase, a nil table to DefaultRates.
func NewConverter(base string, rates map[string]float64) *Converter {
	if base == "" {
		base = DefaultBase
	}
	if rates == nil {
		rates = DefaultRates()
	}
	return &Converter{base: base, rates: maps.Clone(rates)}
}

// Base returns the reference currency code.
func (c *Converter) Base() string {
	return c.base
}

// ToBase converts amount from the given currency into the base currency.
//
// An empty code or the base code returns amount unchanged. So does an unknown code
// or a zero rate: lookups never fail, and callers that must reject unknown
// currencies check Supports first. Converted amounts are rounded to 4 places and
// may overflow to +Inf for huge inputs; NaN and infinite amounts come back as is.
func (c *Converter) ToBase(amount float64, code string) float64 {
	if code == "" || code == c.base {
		return amount
	}
	rate, ok := c.rates[code]
	if !ok || rate == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	return decimal.NewFromFloat(amount).
		Div(decimal.NewFromFloat(rate)).
		Round(4).
		InexactFloat64()
}

// Supports reports whether code is the base currency or has a usable rate.
func (c *Converter) Supports(code string) bool {
	if code == "" || code == c.base {
		return true
	}
	rate, ok := c.rates[code]
	return ok && rate != 0
}

// Rate returns the table entry for code.
func (c *Converter) Rate(code string) (float64, bool) {
	rate, ok := c.rates[code]
	return rate, ok
}

// Codes lists every code in the table, sorted.
func (c *Converter) Codes() []string {
	return slices.Sorted(maps.Keys(c.rates))
}
