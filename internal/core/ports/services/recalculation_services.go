package services

import (
	"context"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
)

// RecalculationSvcFacade recomputes the derived aggregate fields on pledges and
// payment plans from the authoritative set of completed, received payments.
// Both operations are idempotent full recomputes, invoked by payment creation
// and exposed for external backfill and repair jobs.
type RecalculationSvcFacade interface {
	RecalculatePledge(ctx context.Context, pledgeID string, requestedBy string) (*domain.Pledge, error)
	RecalculatePaymentPlan(ctx context.Context, planID string, requestedBy string) (*domain.PaymentPlan, error)
}
