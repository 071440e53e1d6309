package services

import (
	"context"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/donorops/pledge_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// ExchangeRateSvcFacade resolves historical exchange rates and records new ones.
type ExchangeRateSvcFacade interface {
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// ResolveRate returns the conversion rate from one currency to another using
	// the USD-based rates in effect on the given date.
	ResolveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (decimal.Decimal, error)
}

// ConvertCommand describes one currency conversion.
type ConvertCommand struct {
	Amount           decimal.Decimal
	FromCurrencyCode string
	ToCurrencyCode   string
	RateDate         time.Time
	PaymentID        *string
	ConversionType   domain.ConversionType
	RequestedBy      string
}

// ConversionResult carries the converted amount, the rate used, and the audit
// row built for the conversion. The log row is only persisted by ConvertAndLog
// or by a caller that writes it inside its own transaction.
type ConversionResult struct {
	ConvertedAmount decimal.Decimal
	Rate            decimal.Decimal
	Log             domain.CurrencyConversionLog
}

// ConversionSvcFacade converts amounts between currencies with an audit trail.
type ConversionSvcFacade interface {
	// Convert computes the conversion and builds its audit row without
	// persisting it.
	Convert(ctx context.Context, cmd ConvertCommand) (*ConversionResult, error)

	// ConvertAndLog converts and appends the audit row when a payment id is
	// supplied. Audit write failures are logged and swallowed; the monetary
	// result is returned regardless.
	ConvertAndLog(ctx context.Context, cmd ConvertCommand) (*ConversionResult, error)
}
