package money

import "github.com/shopspring/decimal"

// Persisted monetary amounts are rounded to 2 decimal places and rates to 4,
// consistently, so repeated conversions of the same logical amount do not drift.
const (
	AmountPlaces = 2
	RatePlaces   = 4
)

// AllocationTolerance is the maximum absolute difference allowed between a
// payment amount and the sum of its allocations.
var AllocationTolerance = decimal.New(1, -2) // 0.01

// RoundAmount rounds a monetary amount for persistence.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// RoundRate rounds an exchange rate for persistence.
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RatePlaces)
}

// WithinTolerance reports whether two amounts differ by at most the allocation
// tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(AllocationTolerance)
}

// FloorZero clamps a negative amount to zero. Overpayment never drives a pledge
// balance below zero.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
