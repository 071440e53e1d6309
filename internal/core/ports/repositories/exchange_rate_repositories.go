package repositories

import (
	"context"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
)

// ExchangeRateRepositoryFacade defines persistence operations for USD-based,
// effective-dated exchange rates.
type ExchangeRateRepositoryFacade interface {
	// SaveExchangeRate inserts a new rate row. Rates are immutable: saving a
	// second row for the same pair and effective date fails with ErrDuplicate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// FindUSDRateOnOrBefore returns the USD->currency rate with the greatest
	// effective date that is on or before the given date. A future rate is never
	// returned; no applicable row yields ErrNotFound.
	FindUSDRateOnOrBefore(ctx context.Context, currencyCode string, date time.Time) (*domain.ExchangeRate, error)
}

// ConversionLogRepositoryFacade persists the append-only conversion audit trail.
type ConversionLogRepositoryFacade interface {
	SaveConversionLog(ctx context.Context, log domain.CurrencyConversionLog) error
}
