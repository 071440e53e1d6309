package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is the state of a single scheduled installment.
// It is driven one-way by the status of the payment applied against it.
type InstallmentStatus string

const (
	InstallmentPending   InstallmentStatus = "pending"
	InstallmentPaid      InstallmentStatus = "paid"
	InstallmentOverdue   InstallmentStatus = "overdue"
	InstallmentCancelled InstallmentStatus = "cancelled"
)

// PaymentPlan is a scheduled series of installments against a pledge.
// TotalPaid/RemainingAmount and the USD variants follow the same derived-field
// discipline as Pledge: only the recalculation service writes them.
type PaymentPlan struct {
	PaymentPlanID      string           `json:"paymentPlanID"` // Primary Key (UUID)
	PledgeID           string           `json:"pledgeID"`
	CurrencyCode       string           `json:"currencyCode"`
	TotalPlannedAmount decimal.Decimal  `json:"totalPlannedAmount"`
	TotalPaid          decimal.Decimal  `json:"totalPaid"`
	TotalPaidUsd       *decimal.Decimal `json:"totalPaidUsd,omitempty"`
	InstallmentsPaid   int              `json:"installmentsPaid"`
	RemainingAmount    decimal.Decimal  `json:"remainingAmount"`
	RemainingAmountUsd *decimal.Decimal `json:"remainingAmountUsd,omitempty"`
	AuditFields
}

// PaymentPlanAggregates holds the recomputed derived fields written back to a plan.
type PaymentPlanAggregates struct {
	TotalPaid          decimal.Decimal
	TotalPaidUsd       *decimal.Decimal
	InstallmentsPaid   int
	RemainingAmount    decimal.Decimal
	RemainingAmountUsd *decimal.Decimal
}

// InstallmentSchedule is one scheduled installment within a payment plan.
type InstallmentSchedule struct {
	InstallmentScheduleID string            `json:"installmentScheduleID"` // Primary Key (UUID)
	PaymentPlanID         string            `json:"paymentPlanID"`
	DueDate               time.Time         `json:"dueDate"`
	Status                InstallmentStatus `json:"status"`
	PaidDate              *time.Time        `json:"paidDate,omitempty"`
	AuditFields
}

// InstallmentStatusUpdate describes a status transition applied to an installment
// as part of a payment write.
type InstallmentStatusUpdate struct {
	InstallmentScheduleID string
	Status                InstallmentStatus
	PaidDate              *time.Time
}
