package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a payments table row. pledge_id is null for split payments.
type Payment struct {
	PaymentID                  string           `db:"payment_id"`
	PledgeID                   *string          `db:"pledge_id"`
	Amount                     decimal.Decimal  `db:"amount"`
	CurrencyCode               string           `db:"currency_code"`
	AmountUsd                  decimal.Decimal  `db:"amount_usd"`
	AmountInPledgeCurrency     *decimal.Decimal `db:"amount_in_pledge_currency"`
	PledgeCurrencyExchangeRate *decimal.Decimal `db:"pledge_currency_exchange_rate"`
	AmountInPlanCurrency       *decimal.Decimal `db:"amount_in_plan_currency"`
	PlanCurrencyExchangeRate   *decimal.Decimal `db:"plan_currency_exchange_rate"`
	PaymentDate                time.Time        `db:"payment_date"`
	ReceivedDate               *time.Time       `db:"received_date"`
	PaymentStatus              string           `db:"payment_status"`
	IsThirdPartyPayment        bool             `db:"is_third_party_payment"`
	PayerContactID             *string          `db:"payer_contact_id"`
	PaymentPlanID              *string          `db:"payment_plan_id"`
	InstallmentScheduleID      *string          `db:"installment_schedule_id"`
	AuditFields
}

// PaymentAllocation represents a payment_allocations table row.
type PaymentAllocation struct {
	AllocationID                    string           `db:"allocation_id"`
	PaymentID                       string           `db:"payment_id"`
	PledgeID                        string           `db:"pledge_id"`
	PayerContactID                  *string          `db:"payer_contact_id"`
	AllocatedAmount                 decimal.Decimal  `db:"allocated_amount"`
	AllocatedAmountUsd              decimal.Decimal  `db:"allocated_amount_usd"`
	AllocatedAmountInPledgeCurrency decimal.Decimal  `db:"allocated_amount_in_pledge_currency"`
	CurrencyCode                    string           `db:"currency_code"`
	InstallmentScheduleID           *string          `db:"installment_schedule_id"`
	AuditFields
}

// Tag represents a tags table row.
type Tag struct {
	TagID         string `db:"tag_id"`
	Name          string `db:"name"`
	IsActive      bool   `db:"is_active"`
	ShowOnPayment bool   `db:"show_on_payment"`
	AuditFields
}
