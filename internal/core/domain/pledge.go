package domain

import "github.com/shopspring/decimal"

// Pledge is a donor's committed amount in a given currency.
// TotalPaid/Balance (and their USD variants) are derived fields, fully recomputed
// from the set of completed payments by the recalculation service. They are never
// written directly by a client.
type Pledge struct {
	PledgeID          string           `json:"pledgeID"` // Primary Key (UUID)
	ContactID         string           `json:"contactID"`
	CurrencyCode      string           `json:"currencyCode"`
	OriginalAmount    decimal.Decimal  `json:"originalAmount"`
	OriginalAmountUsd *decimal.Decimal `json:"originalAmountUsd,omitempty"`
	TotalPaid         decimal.Decimal  `json:"totalPaid"`
	TotalPaidUsd      *decimal.Decimal `json:"totalPaidUsd,omitempty"`
	Balance           decimal.Decimal  `json:"balance"`
	BalanceUsd        *decimal.Decimal `json:"balanceUsd,omitempty"`
	ExchangeRate      *decimal.Decimal `json:"exchangeRate,omitempty"` // Rate used when the pledge was recorded
	AuditFields
}

// PledgeAggregates holds the recomputed derived fields written back to a pledge.
type PledgeAggregates struct {
	TotalPaid    decimal.Decimal
	TotalPaidUsd *decimal.Decimal
	Balance      decimal.Decimal
	BalanceUsd   *decimal.Decimal
}
