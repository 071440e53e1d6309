package money_test

import (
	"testing"

	"github.com/donorops/pledge_ledger_app/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundAmount(t *testing.T) {
	assert.True(t, money.RoundAmount(decimal.RequireFromString("108.695")).Equal(decimal.RequireFromString("108.70")))
	assert.True(t, money.RoundAmount(decimal.RequireFromString("108.694")).Equal(decimal.RequireFromString("108.69")))
	assert.True(t, money.RoundAmount(decimal.RequireFromString("100")).Equal(decimal.RequireFromString("100.00")))
}

func TestRoundRate(t *testing.T) {
	assert.True(t, money.RoundRate(decimal.RequireFromString("1.086956")).Equal(decimal.RequireFromString("1.0870")))
	assert.True(t, money.RoundRate(decimal.RequireFromString("0.85")).Equal(decimal.RequireFromString("0.8500")))
}

func TestWithinTolerance(t *testing.T) {
	hundred := decimal.RequireFromString("100")

	assert.True(t, money.WithinTolerance(hundred, decimal.RequireFromString("100")))
	assert.True(t, money.WithinTolerance(hundred, decimal.RequireFromString("99.99")), "one cent under is acceptable")
	assert.True(t, money.WithinTolerance(hundred, decimal.RequireFromString("100.01")), "one cent over is acceptable")
	assert.False(t, money.WithinTolerance(hundred, decimal.RequireFromString("99.98")))
	assert.False(t, money.WithinTolerance(hundred, decimal.RequireFromString("100.02")))
}

func TestFloorZero(t *testing.T) {
	assert.True(t, money.FloorZero(decimal.RequireFromString("12.34")).Equal(decimal.RequireFromString("12.34")))
	assert.True(t, money.FloorZero(decimal.Zero).IsZero())
	assert.True(t, money.FloorZero(decimal.RequireFromString("-50")).IsZero(), "negative balances clamp to zero")
}
