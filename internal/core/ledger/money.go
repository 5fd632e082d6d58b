// Package ledger implements the pure computation core of the expense engine:
// split calculation, balance aggregation, debt simplification and cross-group
// settlement allocation. Functions here perform no I/O and trust their inputs
// to be authorization-checked snapshots supplied by the service layer.
package ledger

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits every stored or compared
// amount carries.
const MoneyScale = 2

// Tolerance is the maximum rounding noise accepted when comparing sums of
// money amounts: one minor unit at MoneyScale.
var Tolerance = decimal.New(1, -MoneyScale) // 0.01

// Round2 rounds an amount to MoneyScale using half-up rounding.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// IsZeroish reports whether an amount is within Tolerance of zero.
func IsZeroish(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Tolerance)
}

// WithinTolerance reports whether two amounts differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}
