package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/donorops/pledge_ledger_app/internal/models"
	"github.com/donorops/pledge_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPledgeRepository implements PledgeRepositoryFacade using pgxpool.
type PgxPledgeRepository struct {
	BaseRepository
}

func newPgxPledgeRepository(db *pgxpool.Pool, callTimeout time.Duration) *PgxPledgeRepository {
	return &PgxPledgeRepository{
		BaseRepository: BaseRepository{Pool: db, CallTimeout: callTimeout},
	}
}

const selectPledgeColumns = `
	pledge_id, contact_id, currency_code, original_amount, original_amount_usd,
	total_paid, total_paid_usd, balance, balance_usd, exchange_rate,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPledge(row pgx.Row) (*models.Pledge, error) {
	var m models.Pledge
	err := row.Scan(
		&m.PledgeID, &m.ContactID, &m.CurrencyCode, &m.OriginalAmount, &m.OriginalAmountUsd,
		&m.TotalPaid, &m.TotalPaidUsd, &m.Balance, &m.BalanceUsd, &m.ExchangeRate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindPledgeByID retrieves a pledge by its ID.
func (r *PgxPledgeRepository) FindPledgeByID(ctx context.Context, pledgeID string) (*domain.Pledge, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanPledge(r.Pool.QueryRow(ctx, `SELECT `+selectPledgeColumns+` FROM pledges WHERE pledge_id = $1`, pledgeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("pledge with ID " + pledgeID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find pledge", err)
	}

	pledge := mapping.ToDomainPledge(*m)
	return &pledge, nil
}

// FindPledgesByIDs resolves a batch of pledge ids in one query. Ids without a
// matching row are absent from the result map.
func (r *PgxPledgeRepository) FindPledgesByIDs(ctx context.Context, pledgeIDs []string) (map[string]domain.Pledge, error) {
	if len(pledgeIDs) == 0 {
		return map[string]domain.Pledge{}, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `SELECT `+selectPledgeColumns+` FROM pledges WHERE pledge_id = ANY($1)`, pledgeIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find pledges", err)
	}
	defer rows.Close()

	pledges := make(map[string]domain.Pledge, len(pledgeIDs))
	for rows.Next() {
		m, err := scanPledge(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pledge", err)
		}
		pledges[m.PledgeID] = mapping.ToDomainPledge(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pledges", err)
	}
	return pledges, nil
}

// FindPledgeByIDForUpdate locks the pledge row for the duration of the given
// transaction, serializing concurrent aggregate recomputations for this pledge.
func (r *PgxPledgeRepository) FindPledgeByIDForUpdate(ctx context.Context, tx pgx.Tx, pledgeID string) (*domain.Pledge, error) {
	m, err := scanPledge(tx.QueryRow(ctx, `SELECT `+selectPledgeColumns+` FROM pledges WHERE pledge_id = $1 FOR UPDATE`, pledgeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("pledge with ID " + pledgeID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to lock pledge", err)
	}

	pledge := mapping.ToDomainPledge(*m)
	return &pledge, nil
}

// UpdatePledgeAggregatesInTx overwrites the derived aggregate fields of a
// pledge. Only the recalculation path calls this.
func (r *PgxPledgeRepository) UpdatePledgeAggregatesInTx(ctx context.Context, tx pgx.Tx, pledgeID string, agg domain.PledgeAggregates, updatedBy string, updatedAt time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE pledges
		SET total_paid = $1, total_paid_usd = $2, balance = $3, balance_usd = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE pledge_id = $7`,
		agg.TotalPaid, agg.TotalPaidUsd, agg.Balance, agg.BalanceUsd,
		updatedAt, updatedBy, pledgeID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update pledge aggregates", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("pledge with ID " + pledgeID + " not found")
	}
	return nil
}
