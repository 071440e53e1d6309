package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the USD-based conversion rate for a currency on a specific
// effective date.
type ExchangeRate struct {
	ExchangeRateID   string          `db:"exchange_rate_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	DateEffective    time.Time       `db:"date_effective"`
	AuditFields
}

// CurrencyConversionLog is an append-only audit row for a performed conversion.
type CurrencyConversionLog struct {
	ConversionLogID  string          `db:"conversion_log_id"`
	PaymentID        *string         `db:"payment_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	FromAmount       decimal.Decimal `db:"from_amount"`
	ToAmount         decimal.Decimal `db:"to_amount"`
	Rate             decimal.Decimal `db:"rate"`
	ConversionDate   time.Time       `db:"conversion_date"`
	ConversionType   string          `db:"conversion_type"`
	CreatedAt        time.Time       `db:"created_at"`
	CreatedBy        string          `db:"created_by"`
}
