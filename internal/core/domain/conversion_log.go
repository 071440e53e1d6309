package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionType tags the purpose of a recorded currency conversion so the audit
// trail can be reconciled per use case.
type ConversionType string

const (
	ConversionUSDReporting    ConversionType = "usd_reporting"
	ConversionPledge          ConversionType = "pledge"
	ConversionPlan            ConversionType = "plan"
	ConversionPlanUSDSnapshot ConversionType = "plan_usd_snapshot"
	ConversionAdhoc           ConversionType = "adhoc"
)

// CurrencyConversionLog is one append-only audit row for a performed conversion.
// Rows are never mutated or deleted.
type CurrencyConversionLog struct {
	ConversionLogID  string          `json:"conversionLogID"` // Primary Key (UUID)
	PaymentID        *string         `json:"paymentID,omitempty"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	FromAmount       decimal.Decimal `json:"fromAmount"`
	ToAmount         decimal.Decimal `json:"toAmount"`
	Rate             decimal.Decimal `json:"rate"`
	ConversionDate   time.Time       `json:"conversionDate"` // Rate date the conversion was struck at
	ConversionType   ConversionType  `json:"conversionType"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}
