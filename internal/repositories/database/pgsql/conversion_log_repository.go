package pgsql

import (
	"context"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/donorops/pledge_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConversionLogRepository implements ConversionLogRepositoryFacade. The log
// is append-only; there are no update or delete paths.
type PgxConversionLogRepository struct {
	BaseRepository
}

func newPgxConversionLogRepository(db *pgxpool.Pool, callTimeout time.Duration) *PgxConversionLogRepository {
	return &PgxConversionLogRepository{
		BaseRepository: BaseRepository{Pool: db, CallTimeout: callTimeout},
	}
}

const insertConversionLogSQL = `
	INSERT INTO currency_conversion_logs (
		conversion_log_id, payment_id, from_currency_code, to_currency_code,
		from_amount, to_amount, rate, conversion_date, conversion_type,
		created_at, created_by
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// SaveConversionLog appends one audit row.
func (r *PgxConversionLogRepository) SaveConversionLog(ctx context.Context, log domain.CurrencyConversionLog) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelConversionLog(log)
	_, err := r.Pool.Exec(ctx, insertConversionLogSQL,
		m.ConversionLogID, m.PaymentID, m.FromCurrencyCode, m.ToCurrencyCode,
		m.FromAmount, m.ToAmount, m.Rate, m.ConversionDate, m.ConversionType,
		m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append conversion log", err)
	}
	return nil
}
