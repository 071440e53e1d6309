package repositories

import (
	"context"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PledgeRepositoryFacade defines persistence operations for pledges. The
// aggregate update methods take a pgx.Tx so recalculation can hold the row lock
// it acquired for the duration of the read-then-write.
type PledgeRepositoryFacade interface {
	FindPledgeByID(ctx context.Context, pledgeID string) (*domain.Pledge, error)

	// FindPledgesByIDs resolves a batch of pledge ids in one query. Missing ids
	// are simply absent from the returned map; the caller decides how to report
	// them.
	FindPledgesByIDs(ctx context.Context, pledgeIDs []string) (map[string]domain.Pledge, error)

	// FindPledgeByIDForUpdate locks the pledge row (SELECT ... FOR UPDATE) within
	// the given transaction, serializing concurrent recalculations per pledge.
	FindPledgeByIDForUpdate(ctx context.Context, tx pgx.Tx, pledgeID string) (*domain.Pledge, error)

	// UpdatePledgeAggregatesInTx overwrites the derived aggregate fields.
	UpdatePledgeAggregatesInTx(ctx context.Context, tx pgx.Tx, pledgeID string, agg domain.PledgeAggregates, updatedBy string, updatedAt time.Time) error
}

// PaymentPlanRepositoryFacade defines persistence operations for payment plans.
type PaymentPlanRepositoryFacade interface {
	FindPaymentPlanByID(ctx context.Context, planID string) (*domain.PaymentPlan, error)

	// FindPaymentPlanByIDForUpdate locks the plan row within the given
	// transaction.
	FindPaymentPlanByIDForUpdate(ctx context.Context, tx pgx.Tx, planID string) (*domain.PaymentPlan, error)

	// UpdatePaymentPlanAggregatesInTx overwrites the derived aggregate fields.
	UpdatePaymentPlanAggregatesInTx(ctx context.Context, tx pgx.Tx, planID string, agg domain.PaymentPlanAggregates, updatedBy string, updatedAt time.Time) error
}
