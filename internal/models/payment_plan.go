package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPlan represents a payment_plans table row.
type PaymentPlan struct {
	PaymentPlanID      string           `db:"payment_plan_id"`
	PledgeID           string           `db:"pledge_id"`
	CurrencyCode       string           `db:"currency_code"`
	TotalPlannedAmount decimal.Decimal  `db:"total_planned_amount"`
	TotalPaid          decimal.Decimal  `db:"total_paid"`
	TotalPaidUsd       *decimal.Decimal `db:"total_paid_usd"`
	InstallmentsPaid   int              `db:"installments_paid"`
	RemainingAmount    decimal.Decimal  `db:"remaining_amount"`
	RemainingAmountUsd *decimal.Decimal `db:"remaining_amount_usd"`
	AuditFields
}

// InstallmentSchedule represents an installment_schedules table row.
type InstallmentSchedule struct {
	InstallmentScheduleID string     `db:"installment_schedule_id"`
	PaymentPlanID         string     `db:"payment_plan_id"`
	DueDate               time.Time  `db:"due_date"`
	Status                string     `db:"status"`
	PaidDate              *time.Time `db:"paid_date"`
	AuditFields
}
