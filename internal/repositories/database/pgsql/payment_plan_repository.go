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

// PgxPaymentPlanRepository implements PaymentPlanRepositoryFacade using pgxpool.
type PgxPaymentPlanRepository struct {
	BaseRepository
}

func newPgxPaymentPlanRepository(db *pgxpool.Pool, callTimeout time.Duration) *PgxPaymentPlanRepository {
	return &PgxPaymentPlanRepository{
		BaseRepository: BaseRepository{Pool: db, CallTimeout: callTimeout},
	}
}

const selectPaymentPlanColumns = `
	payment_plan_id, pledge_id, currency_code, total_planned_amount,
	total_paid, total_paid_usd, installments_paid, remaining_amount, remaining_amount_usd,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPaymentPlan(row pgx.Row) (*models.PaymentPlan, error) {
	var m models.PaymentPlan
	err := row.Scan(
		&m.PaymentPlanID, &m.PledgeID, &m.CurrencyCode, &m.TotalPlannedAmount,
		&m.TotalPaid, &m.TotalPaidUsd, &m.InstallmentsPaid, &m.RemainingAmount, &m.RemainingAmountUsd,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindPaymentPlanByID retrieves a payment plan by its ID.
func (r *PgxPaymentPlanRepository) FindPaymentPlanByID(ctx context.Context, planID string) (*domain.PaymentPlan, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanPaymentPlan(r.Pool.QueryRow(ctx, `SELECT `+selectPaymentPlanColumns+` FROM payment_plans WHERE payment_plan_id = $1`, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment plan with ID " + planID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find payment plan", err)
	}

	plan := mapping.ToDomainPaymentPlan(*m)
	return &plan, nil
}

// FindPaymentPlanByIDForUpdate locks the plan row inside the given transaction.
func (r *PgxPaymentPlanRepository) FindPaymentPlanByIDForUpdate(ctx context.Context, tx pgx.Tx, planID string) (*domain.PaymentPlan, error) {
	m, err := scanPaymentPlan(tx.QueryRow(ctx, `SELECT `+selectPaymentPlanColumns+` FROM payment_plans WHERE payment_plan_id = $1 FOR UPDATE`, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment plan with ID " + planID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to lock payment plan", err)
	}

	plan := mapping.ToDomainPaymentPlan(*m)
	return &plan, nil
}

// UpdatePaymentPlanAggregatesInTx overwrites the derived aggregate fields of a plan.
func (r *PgxPaymentPlanRepository) UpdatePaymentPlanAggregatesInTx(ctx context.Context, tx pgx.Tx, planID string, agg domain.PaymentPlanAggregates, updatedBy string, updatedAt time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE payment_plans
		SET total_paid = $1, total_paid_usd = $2, installments_paid = $3,
			remaining_amount = $4, remaining_amount_usd = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE payment_plan_id = $8`,
		agg.TotalPaid, agg.TotalPaidUsd, agg.InstallmentsPaid,
		agg.RemainingAmount, agg.RemainingAmountUsd,
		updatedAt, updatedBy, planID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment plan aggregates", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment plan with ID " + planID + " not found")
	}
	return nil
}
