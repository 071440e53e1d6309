package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment. Only completed payments with
// a non-null received date contribute to pledge and plan aggregates.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentExpected   PaymentStatus = "expected"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// Payment is the unit of money movement. A single-pledge payment carries its
// PledgeID directly; a split payment has a nil PledgeID and the per-pledge
// breakdown lives in its allocations.
type Payment struct {
	PaymentID                  string           `json:"paymentID"` // Primary Key (UUID)
	PledgeID                   *string          `json:"pledgeID,omitempty"`
	Amount                     decimal.Decimal  `json:"amount"`
	CurrencyCode               string           `json:"currencyCode"`
	AmountUsd                  decimal.Decimal  `json:"amountUsd"`
	AmountInPledgeCurrency     *decimal.Decimal `json:"amountInPledgeCurrency,omitempty"`
	PledgeCurrencyExchangeRate *decimal.Decimal `json:"pledgeCurrencyExchangeRate,omitempty"`
	AmountInPlanCurrency       *decimal.Decimal `json:"amountInPlanCurrency,omitempty"`
	PlanCurrencyExchangeRate   *decimal.Decimal `json:"planCurrencyExchangeRate,omitempty"`
	PaymentDate                time.Time        `json:"paymentDate"`
	ReceivedDate               *time.Time       `json:"receivedDate,omitempty"`
	PaymentStatus              PaymentStatus    `json:"paymentStatus"`
	IsThirdPartyPayment        bool             `json:"isThirdPartyPayment"`
	PayerContactID             *string          `json:"payerContactID,omitempty"`
	PaymentPlanID              *string          `json:"paymentPlanID,omitempty"`
	InstallmentScheduleID      *string          `json:"installmentScheduleID,omitempty"`
	AuditFields
}

// PaymentAllocation is the portion of a split payment attributed to one pledge.
// All allocations of a payment share its PaymentID; each belongs to exactly one
// pledge. For a given payment the allocated amounts sum to the payment amount.
type PaymentAllocation struct {
	AllocationID                    string          `json:"allocationID"` // Primary Key (UUID)
	PaymentID                       string          `json:"paymentID"`
	PledgeID                        string          `json:"pledgeID"`
	PayerContactID                  *string         `json:"payerContactID,omitempty"`
	AllocatedAmount                 decimal.Decimal `json:"allocatedAmount"`
	AllocatedAmountUsd              decimal.Decimal `json:"allocatedAmountUsd"`
	AllocatedAmountInPledgeCurrency decimal.Decimal `json:"allocatedAmountInPledgeCurrency"`
	CurrencyCode                    string          `json:"currencyCode"`
	InstallmentScheduleID           *string         `json:"installmentScheduleID,omitempty"`
	AuditFields
}

// SettledAllocation pairs an allocation with the received date of its parent
// payment, which is the rate date for any fallback conversion during
// recalculation.
type SettledAllocation struct {
	PaymentAllocation
	ReceivedDate time.Time
}
