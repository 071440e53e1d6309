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

// PgxInstallmentRepository implements InstallmentRepositoryFacade using pgxpool.
// Status writes happen through the payment transaction, not here.
type PgxInstallmentRepository struct {
	BaseRepository
}

func newPgxInstallmentRepository(db *pgxpool.Pool, callTimeout time.Duration) *PgxInstallmentRepository {
	return &PgxInstallmentRepository{
		BaseRepository: BaseRepository{Pool: db, CallTimeout: callTimeout},
	}
}

// FindInstallmentScheduleByID retrieves an installment schedule entry by its ID.
func (r *PgxInstallmentRepository) FindInstallmentScheduleByID(ctx context.Context, installmentScheduleID string) (*domain.InstallmentSchedule, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var m models.InstallmentSchedule
	err := r.Pool.QueryRow(ctx, `
		SELECT installment_schedule_id, payment_plan_id, due_date, status, paid_date,
			created_at, created_by, last_updated_at, last_updated_by
		FROM installment_schedules
		WHERE installment_schedule_id = $1`, installmentScheduleID,
	).Scan(
		&m.InstallmentScheduleID, &m.PaymentPlanID, &m.DueDate, &m.Status, &m.PaidDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("installment schedule with ID " + installmentScheduleID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find installment schedule", err)
	}

	schedule := mapping.ToDomainInstallmentSchedule(m)
	return &schedule, nil
}
