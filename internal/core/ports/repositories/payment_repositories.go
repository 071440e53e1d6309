package repositories

import (
	"context"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentRepositoryFacade defines persistence operations for payments and their
// allocations.
type PaymentRepositoryFacade interface {
	// SavePayment persists a payment together with its allocations, tag links,
	// conversion audit rows, and installment status updates within a single
	// database transaction. A split payment is all-or-nothing: a payment with
	// only some of its allocations must never be observable.
	SavePayment(ctx context.Context, payment domain.Payment, allocations []domain.PaymentAllocation, tagIDs []string, conversionLogs []domain.CurrencyConversionLog, installmentUpdates []domain.InstallmentStatusUpdate) error

	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error)

	// FindSettledPaymentsByPledgeIDInTx returns the payments applied directly to
	// a pledge that are completed with a non-null received date. Runs inside the
	// recalculation transaction.
	FindSettledPaymentsByPledgeIDInTx(ctx context.Context, tx pgx.Tx, pledgeID string) ([]domain.Payment, error)

	// FindSettledAllocationsByPledgeIDInTx returns the allocations for a pledge
	// whose parent payment is completed with a non-null received date.
	FindSettledAllocationsByPledgeIDInTx(ctx context.Context, tx pgx.Tx, pledgeID string) ([]domain.SettledAllocation, error)

	// FindSettledPaymentsByPlanIDInTx returns the completed, received payments
	// recorded against a payment plan.
	FindSettledPaymentsByPlanIDInTx(ctx context.Context, tx pgx.Tx, planID string) ([]domain.Payment, error)
}

// TagRepositoryFacade reads tags for validation and display.
type TagRepositoryFacade interface {
	FindTagsByIDs(ctx context.Context, tagIDs []string) (map[string]domain.Tag, error)
	FindTagsByPaymentID(ctx context.Context, paymentID string) ([]domain.Tag, error)
}

// InstallmentRepositoryFacade reads installment schedules.
type InstallmentRepositoryFacade interface {
	FindInstallmentScheduleByID(ctx context.Context, installmentScheduleID string) (*domain.InstallmentSchedule, error)
}
