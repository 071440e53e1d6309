package services

import (
	"context"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/donorops/pledge_ledger_app/internal/dto"
)

// PaymentSvcFacade is the write path for payments: creation of single-pledge and
// split payments together with allocations, tags, and the resulting aggregate
// recalculation.
type PaymentSvcFacade interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, []domain.PaymentAllocation, error)
}

// PaymentDetails is a payment reassembled with its allocations and tags for the
// read path.
type PaymentDetails struct {
	Payment     domain.Payment
	Allocations []domain.PaymentAllocation
	Tags        []domain.Tag
}

// PaymentQuerySvcFacade is the read path that reassembles payments with their
// allocations and tags.
type PaymentQuerySvcFacade interface {
	GetPaymentByID(ctx context.Context, paymentID string) (*PaymentDetails, error)
}
