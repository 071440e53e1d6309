package pgsql

import (
	"time"

	portsrepo "github.com/donorops/pledge_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository against the shared pool.
// A zero callTimeout falls back to DefaultCallTimeout.
func NewRepositoryProvider(dbPool *pgxpool.Pool, callTimeout time.Duration) portsrepo.RepositoryProvider {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}

	return portsrepo.RepositoryProvider{
		Tx:               &BaseRepository{Pool: dbPool, CallTimeout: callTimeout},
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool, callTimeout),
		ConversionLog:    newPgxConversionLogRepository(dbPool, callTimeout),
		PledgeRepo:       newPgxPledgeRepository(dbPool, callTimeout),
		PaymentPlanRepo:  newPgxPaymentPlanRepository(dbPool, callTimeout),
		PaymentRepo:      newPgxPaymentRepository(dbPool, callTimeout),
		TagRepo:          newPgxTagRepository(dbPool, callTimeout),
		InstallmentRepo:  newPgxInstallmentRepository(dbPool, callTimeout),
	}
}
