package services

import (
	"context"
	"fmt"

	portsrepo "github.com/donorops/pledge_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
)

// paymentQueryService reassembles a payment with its allocations and tags for
// the read path. Derived multi-currency display concerns beyond the stored
// columns belong to the reporting surface, not here.
type paymentQueryService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	tagRepo     portsrepo.TagRepositoryFacade
}

// NewPaymentQueryService creates a new payment read service.
func NewPaymentQueryService(paymentRepo portsrepo.PaymentRepositoryFacade, tagRepo portsrepo.TagRepositoryFacade) portssvc.PaymentQuerySvcFacade {
	return &paymentQueryService{
		paymentRepo: paymentRepo,
		tagRepo:     tagRepo,
	}
}

var _ portssvc.PaymentQuerySvcFacade = (*paymentQueryService)(nil)

func (s *paymentQueryService) GetPaymentByID(ctx context.Context, paymentID string) (*portssvc.PaymentDetails, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}

	allocations, err := s.paymentRepo.FindAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations for payment %s: %w", paymentID, err)
	}

	tags, err := s.tagRepo.FindTagsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags for payment %s: %w", paymentID, err)
	}

	return &portssvc.PaymentDetails{
		Payment:     *payment,
		Allocations: allocations,
		Tags:        tags,
	}, nil
}
