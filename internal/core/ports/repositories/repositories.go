package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager begins database transactions for callers that orchestrate
// multi-repository units of work (the recalculation service holds a row lock
// across a read-then-write).
type TxManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// RepositoryProvider bundles all repository implementations for wiring.
type RepositoryProvider struct {
	Tx               TxManager
	ExchangeRateRepo ExchangeRateRepositoryFacade
	ConversionLog    ConversionLogRepositoryFacade
	PledgeRepo       PledgeRepositoryFacade
	PaymentPlanRepo  PaymentPlanRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	TagRepo          TagRepositoryFacade
	InstallmentRepo  InstallmentRepositoryFacade
}
