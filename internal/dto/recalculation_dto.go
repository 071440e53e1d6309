package dto

import (
	"time"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PledgeResponse is the API shape of a pledge after recalculation.
type PledgeResponse struct {
	PledgeID          string           `json:"pledgeID"`
	ContactID         string           `json:"contactID"`
	CurrencyCode      string           `json:"currencyCode"`
	OriginalAmount    decimal.Decimal  `json:"originalAmount"`
	OriginalAmountUsd *decimal.Decimal `json:"originalAmountUsd,omitempty"`
	TotalPaid         decimal.Decimal  `json:"totalPaid"`
	TotalPaidUsd      *decimal.Decimal `json:"totalPaidUsd,omitempty"`
	Balance           decimal.Decimal  `json:"balance"`
	BalanceUsd        *decimal.Decimal `json:"balanceUsd,omitempty"`
	LastUpdatedAt     time.Time        `json:"lastUpdatedAt"`
}

// ToPledgeResponse converts a domain.Pledge to PledgeResponse DTO
func ToPledgeResponse(p *domain.Pledge) PledgeResponse {
	return PledgeResponse{
		PledgeID:          p.PledgeID,
		ContactID:         p.ContactID,
		CurrencyCode:      p.CurrencyCode,
		OriginalAmount:    p.OriginalAmount,
		OriginalAmountUsd: p.OriginalAmountUsd,
		TotalPaid:         p.TotalPaid,
		TotalPaidUsd:      p.TotalPaidUsd,
		Balance:           p.Balance,
		BalanceUsd:        p.BalanceUsd,
		LastUpdatedAt:     p.LastUpdatedAt,
	}
}

// PaymentPlanResponse is the API shape of a payment plan after recalculation.
type PaymentPlanResponse struct {
	PaymentPlanID      string           `json:"paymentPlanID"`
	PledgeID           string           `json:"pledgeID"`
	CurrencyCode       string           `json:"currencyCode"`
	TotalPlannedAmount decimal.Decimal  `json:"totalPlannedAmount"`
	TotalPaid          decimal.Decimal  `json:"totalPaid"`
	TotalPaidUsd       *decimal.Decimal `json:"totalPaidUsd,omitempty"`
	InstallmentsPaid   int              `json:"installmentsPaid"`
	RemainingAmount    decimal.Decimal  `json:"remainingAmount"`
	RemainingAmountUsd *decimal.Decimal `json:"remainingAmountUsd,omitempty"`
	LastUpdatedAt      time.Time        `json:"lastUpdatedAt"`
}

// ToPaymentPlanResponse converts a domain.PaymentPlan to PaymentPlanResponse DTO
func ToPaymentPlanResponse(p *domain.PaymentPlan) PaymentPlanResponse {
	return PaymentPlanResponse{
		PaymentPlanID:      p.PaymentPlanID,
		PledgeID:           p.PledgeID,
		CurrencyCode:       p.CurrencyCode,
		TotalPlannedAmount: p.TotalPlannedAmount,
		TotalPaid:          p.TotalPaid,
		TotalPaidUsd:       p.TotalPaidUsd,
		InstallmentsPaid:   p.InstallmentsPaid,
		RemainingAmount:    p.RemainingAmount,
		RemainingAmountUsd: p.RemainingAmountUsd,
		LastUpdatedAt:      p.LastUpdatedAt,
	}
}
