package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores a conversion rate from USD to a target currency, effective
// on a specific date. A rate holds from its effective date until superseded by a
// later row for the same pair; rows are immutable once recorded.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
