package dto

import (
	"time"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationInput is one pledge's share of a split payment.
type AllocationInput struct {
	PledgeID              string           `json:"pledgeID" binding:"required"`
	AllocatedAmount       decimal.Decimal  `json:"allocatedAmount" binding:"required"`
	CurrencyCode          *string          `json:"currencyCode,omitempty" binding:"omitempty,len=3,uppercase"`
	PayerContactID        *string          `json:"payerContactID,omitempty"`
	InstallmentScheduleID *string          `json:"installmentScheduleID,omitempty"`
}

// CreatePaymentRequest carries a payment creation request. Exactly one addressing
// mode is permitted: a single PledgeID, or a populated Allocations list.
type CreatePaymentRequest struct {
	Amount                decimal.Decimal      `json:"amount" binding:"required"`
	CurrencyCode          string               `json:"currencyCode" binding:"required,len=3,uppercase"`
	PaymentDate           time.Time            `json:"paymentDate" binding:"required"`
	ReceivedDate          *time.Time           `json:"receivedDate,omitempty"`
	PaymentStatus         domain.PaymentStatus `json:"paymentStatus" binding:"required,oneof=pending expected processing completed failed cancelled"`
	PledgeID              *string              `json:"pledgeID,omitempty"`
	Allocations           []AllocationInput    `json:"allocations,omitempty" binding:"omitempty,dive"`
	PaymentPlanID         *string              `json:"paymentPlanID,omitempty"`
	InstallmentScheduleID *string              `json:"installmentScheduleID,omitempty"`
	IsSplitPayment        bool                 `json:"isSplitPayment"`
	IsMultiContactPayment bool                 `json:"isMultiContactPayment"`
	IsThirdPartyPayment   bool                 `json:"isThirdPartyPayment"`
	PayerContactID        *string              `json:"payerContactID,omitempty"`
	TagIDs                []string             `json:"tagIDs,omitempty"`
}

// AllocationResponse is the API shape of a persisted allocation.
type AllocationResponse struct {
	AllocationID                    string          `json:"allocationID"`
	PaymentID                       string          `json:"paymentID"`
	PledgeID                        string          `json:"pledgeID"`
	PayerContactID                  *string         `json:"payerContactID,omitempty"`
	AllocatedAmount                 decimal.Decimal `json:"allocatedAmount"`
	AllocatedAmountUsd              decimal.Decimal `json:"allocatedAmountUsd"`
	AllocatedAmountInPledgeCurrency decimal.Decimal `json:"allocatedAmountInPledgeCurrency"`
	CurrencyCode                    string          `json:"currencyCode"`
	InstallmentScheduleID           *string         `json:"installmentScheduleID,omitempty"`
}

// TagResponse is the API shape of a tag attached to a payment.
type TagResponse struct {
	TagID string `json:"tagID"`
	Name  string `json:"name"`
}

// PaymentResponse is the API shape of a persisted payment with its allocations.
type PaymentResponse struct {
	PaymentID                  string               `json:"paymentID"`
	PledgeID                   *string              `json:"pledgeID,omitempty"`
	Amount                     decimal.Decimal      `json:"amount"`
	CurrencyCode               string               `json:"currencyCode"`
	AmountUsd                  decimal.Decimal      `json:"amountUsd"`
	AmountInPledgeCurrency     *decimal.Decimal     `json:"amountInPledgeCurrency,omitempty"`
	PledgeCurrencyExchangeRate *decimal.Decimal     `json:"pledgeCurrencyExchangeRate,omitempty"`
	AmountInPlanCurrency       *decimal.Decimal     `json:"amountInPlanCurrency,omitempty"`
	PlanCurrencyExchangeRate   *decimal.Decimal     `json:"planCurrencyExchangeRate,omitempty"`
	PaymentDate                time.Time            `json:"paymentDate"`
	ReceivedDate               *time.Time           `json:"receivedDate,omitempty"`
	PaymentStatus              domain.PaymentStatus `json:"paymentStatus"`
	IsThirdPartyPayment        bool                 `json:"isThirdPartyPayment"`
	PayerContactID             *string              `json:"payerContactID,omitempty"`
	PaymentPlanID              *string              `json:"paymentPlanID,omitempty"`
	InstallmentScheduleID      *string              `json:"installmentScheduleID,omitempty"`
	Allocations                []AllocationResponse `json:"allocations,omitempty"`
	Tags                       []TagResponse        `json:"tags,omitempty"`
	CreatedAt                  time.Time            `json:"createdAt"`
	CreatedBy                  string               `json:"createdBy"`
}

// ToAllocationResponse converts a domain PaymentAllocation to its API shape.
func ToAllocationResponse(a domain.PaymentAllocation) AllocationResponse {
	return AllocationResponse{
		AllocationID:                    a.AllocationID,
		PaymentID:                       a.PaymentID,
		PledgeID:                        a.PledgeID,
		PayerContactID:                  a.PayerContactID,
		AllocatedAmount:                 a.AllocatedAmount,
		AllocatedAmountUsd:              a.AllocatedAmountUsd,
		AllocatedAmountInPledgeCurrency: a.AllocatedAmountInPledgeCurrency,
		CurrencyCode:                    a.CurrencyCode,
		InstallmentScheduleID:           a.InstallmentScheduleID,
	}
}

// ToPaymentResponse converts a domain Payment with allocations and tags to its
// API shape.
func ToPaymentResponse(p *domain.Payment, allocations []domain.PaymentAllocation, tags []domain.Tag) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:                  p.PaymentID,
		PledgeID:                   p.PledgeID,
		Amount:                     p.Amount,
		CurrencyCode:               p.CurrencyCode,
		AmountUsd:                  p.AmountUsd,
		AmountInPledgeCurrency:     p.AmountInPledgeCurrency,
		PledgeCurrencyExchangeRate: p.PledgeCurrencyExchangeRate,
		AmountInPlanCurrency:       p.AmountInPlanCurrency,
		PlanCurrencyExchangeRate:   p.PlanCurrencyExchangeRate,
		PaymentDate:                p.PaymentDate,
		ReceivedDate:               p.ReceivedDate,
		PaymentStatus:              p.PaymentStatus,
		IsThirdPartyPayment:        p.IsThirdPartyPayment,
		PayerContactID:             p.PayerContactID,
		PaymentPlanID:              p.PaymentPlanID,
		InstallmentScheduleID:      p.InstallmentScheduleID,
		CreatedAt:                  p.CreatedAt,
		CreatedBy:                  p.CreatedBy,
	}
	for _, a := range allocations {
		resp.Allocations = append(resp.Allocations, ToAllocationResponse(a))
	}
	for _, t := range tags {
		resp.Tags = append(resp.Tags, TagResponse{TagID: t.TagID, Name: t.Name})
	}
	return resp
}
