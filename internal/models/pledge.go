package models

import "github.com/shopspring/decimal"

// Pledge represents a pledges table row. The total_paid/balance columns are
// derived and only ever written by the recalculation path.
type Pledge struct {
	PledgeID          string           `db:"pledge_id"`
	ContactID         string           `db:"contact_id"`
	CurrencyCode      string           `db:"currency_code"`
	OriginalAmount    decimal.Decimal  `db:"original_amount"`
	OriginalAmountUsd *decimal.Decimal `db:"original_amount_usd"`
	TotalPaid         decimal.Decimal  `db:"total_paid"`
	TotalPaidUsd      *decimal.Decimal `db:"total_paid_usd"`
	Balance           decimal.Decimal  `db:"balance"`
	BalanceUsd        *decimal.Decimal `db:"balance_usd"`
	ExchangeRate      *decimal.Decimal `db:"exchange_rate"`
	AuditFields
}
