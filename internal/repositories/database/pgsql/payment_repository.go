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

// PgxPaymentRepository implements PaymentRepositoryFacade using pgxpool.
type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(db *pgxpool.Pool, callTimeout time.Duration) *PgxPaymentRepository {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: db, CallTimeout: callTimeout},
	}
}

const selectPaymentColumns = `
	payment_id, pledge_id, amount, currency_code, amount_usd,
	amount_in_pledge_currency, pledge_currency_exchange_rate,
	amount_in_plan_currency, plan_currency_exchange_rate,
	payment_date, received_date, payment_status, is_third_party_payment,
	payer_contact_id, payment_plan_id, installment_schedule_id,
	created_at, created_by, last_updated_at, last_updated_by`

const insertPaymentSQL = `
	INSERT INTO payments (` + selectPaymentColumns + `
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

const insertAllocationSQL = `
	INSERT INTO payment_allocations (
		allocation_id, payment_id, pledge_id, payer_contact_id,
		allocated_amount, allocated_amount_usd, allocated_amount_in_pledge_currency,
		currency_code, installment_schedule_id,
		created_at, created_by, last_updated_at, last_updated_by
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const insertPaymentTagSQL = `
	INSERT INTO payment_tags (payment_id, tag_id) VALUES ($1, $2)`

const updateInstallmentStatusSQL = `
	UPDATE installment_schedules
	SET status = $1, paid_date = $2, last_updated_at = $3, last_updated_by = $4
	WHERE installment_schedule_id = $5`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.PledgeID, &m.Amount, &m.CurrencyCode, &m.AmountUsd,
		&m.AmountInPledgeCurrency, &m.PledgeCurrencyExchangeRate,
		&m.AmountInPlanCurrency, &m.PlanCurrencyExchangeRate,
		&m.PaymentDate, &m.ReceivedDate, &m.PaymentStatus, &m.IsThirdPartyPayment,
		&m.PayerContactID, &m.PaymentPlanID, &m.InstallmentScheduleID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanAllocation(row pgx.Row) (*models.PaymentAllocation, error) {
	var m models.PaymentAllocation
	err := row.Scan(
		&m.AllocationID, &m.PaymentID, &m.PledgeID, &m.PayerContactID,
		&m.AllocatedAmount, &m.AllocatedAmountUsd, &m.AllocatedAmountInPledgeCurrency,
		&m.CurrencyCode, &m.InstallmentScheduleID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePayment writes the payment and every row derived from it in one
// transaction. All inserts are queued into a single batch so a failure in any
// statement rolls back the whole payment.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, allocations []domain.PaymentAllocation, tagIDs []string, conversionLogs []domain.CurrencyConversionLog, installmentUpdates []domain.InstallmentStatusUpdate) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}

	p := mapping.ToModelPayment(payment)
	batch.Queue(insertPaymentSQL,
		p.PaymentID, p.PledgeID, p.Amount, p.CurrencyCode, p.AmountUsd,
		p.AmountInPledgeCurrency, p.PledgeCurrencyExchangeRate,
		p.AmountInPlanCurrency, p.PlanCurrencyExchangeRate,
		p.PaymentDate, p.ReceivedDate, p.PaymentStatus, p.IsThirdPartyPayment,
		p.PayerContactID, p.PaymentPlanID, p.InstallmentScheduleID,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)

	for _, alloc := range allocations {
		a := mapping.ToModelPaymentAllocation(alloc)
		batch.Queue(insertAllocationSQL,
			a.AllocationID, a.PaymentID, a.PledgeID, a.PayerContactID,
			a.AllocatedAmount, a.AllocatedAmountUsd, a.AllocatedAmountInPledgeCurrency,
			a.CurrencyCode, a.InstallmentScheduleID,
			a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
		)
	}

	for _, tagID := range tagIDs {
		batch.Queue(insertPaymentTagSQL, p.PaymentID, tagID)
	}

	for _, log := range conversionLogs {
		l := mapping.ToModelConversionLog(log)
		batch.Queue(insertConversionLogSQL,
			l.ConversionLogID, l.PaymentID, l.FromCurrencyCode, l.ToCurrencyCode,
			l.FromAmount, l.ToAmount, l.Rate, l.ConversionDate, l.ConversionType,
			l.CreatedAt, l.CreatedBy,
		)
	}

	for _, upd := range installmentUpdates {
		batch.Queue(updateInstallmentStatusSQL,
			string(upd.Status), upd.PaidDate, p.LastUpdatedAt, p.LastUpdatedBy,
			upd.InstallmentScheduleID,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var execErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && execErr == nil {
			execErr = err
		}
	}
	if closeErr := br.Close(); closeErr != nil && execErr == nil {
		execErr = closeErr
	}
	if execErr != nil {
		return apperrors.NewAppError(500, "failed to save payment", execErr)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit payment", err)
	}
	return nil
}

// FindPaymentByID retrieves a payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanPayment(r.Pool.QueryRow(ctx, `SELECT `+selectPaymentColumns+` FROM payments WHERE payment_id = $1`, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment with ID " + paymentID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find payment", err)
	}

	payment := mapping.ToDomainPayment(*m)
	return &payment, nil
}

// FindAllocationsByPaymentID returns the allocations of a payment, oldest first.
func (r *PgxPaymentRepository) FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT allocation_id, payment_id, pledge_id, payer_contact_id,
			allocated_amount, allocated_amount_usd, allocated_amount_in_pledge_currency,
			currency_code, installment_schedule_id,
			created_at, created_by, last_updated_at, last_updated_by
		FROM payment_allocations
		WHERE payment_id = $1
		ORDER BY created_at`, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find allocations", err)
	}
	defer rows.Close()

	var allocations []domain.PaymentAllocation
	for rows.Next() {
		m, err := scanAllocation(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan allocation", err)
		}
		allocations = append(allocations, mapping.ToDomainPaymentAllocation(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating allocations", err)
	}
	return allocations, nil
}

// FindSettledPaymentsByPledgeIDInTx returns the completed, received payments
// applied directly to a pledge.
func (r *PgxPaymentRepository) FindSettledPaymentsByPledgeIDInTx(ctx context.Context, tx pgx.Tx, pledgeID string) ([]domain.Payment, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+selectPaymentColumns+`
		FROM payments
		WHERE pledge_id = $1
			AND payment_status = 'completed'
			AND received_date IS NOT NULL
		ORDER BY received_date`, pledgeID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find settled payments", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

// FindSettledAllocationsByPledgeIDInTx returns the allocations applied to a
// pledge whose parent payment has settled, paired with that payment's received
// date for rate lookup.
func (r *PgxPaymentRepository) FindSettledAllocationsByPledgeIDInTx(ctx context.Context, tx pgx.Tx, pledgeID string) ([]domain.SettledAllocation, error) {
	rows, err := tx.Query(ctx, `
		SELECT a.allocation_id, a.payment_id, a.pledge_id, a.payer_contact_id,
			a.allocated_amount, a.allocated_amount_usd, a.allocated_amount_in_pledge_currency,
			a.currency_code, a.installment_schedule_id,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
			p.received_date
		FROM payment_allocations a
		JOIN payments p ON p.payment_id = a.payment_id
		WHERE a.pledge_id = $1
			AND p.payment_status = 'completed'
			AND p.received_date IS NOT NULL
		ORDER BY p.received_date`, pledgeID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find settled allocations", err)
	}
	defer rows.Close()

	var settled []domain.SettledAllocation
	for rows.Next() {
		var m models.PaymentAllocation
		var receivedDate time.Time
		err := rows.Scan(
			&m.AllocationID, &m.PaymentID, &m.PledgeID, &m.PayerContactID,
			&m.AllocatedAmount, &m.AllocatedAmountUsd, &m.AllocatedAmountInPledgeCurrency,
			&m.CurrencyCode, &m.InstallmentScheduleID,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&receivedDate,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan settled allocation", err)
		}
		settled = append(settled, domain.SettledAllocation{
			PaymentAllocation: mapping.ToDomainPaymentAllocation(m),
			ReceivedDate:      receivedDate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating settled allocations", err)
	}
	return settled, nil
}

// FindSettledPaymentsByPlanIDInTx returns the completed, received payments
// recorded against a payment plan.
func (r *PgxPaymentRepository) FindSettledPaymentsByPlanIDInTx(ctx context.Context, tx pgx.Tx, planID string) ([]domain.Payment, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+selectPaymentColumns+`
		FROM payments
		WHERE payment_plan_id = $1
			AND payment_status = 'completed'
			AND received_date IS NOT NULL
		ORDER BY received_date`, planID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find settled plan payments", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var payments []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment", err)
		}
		payments = append(payments, mapping.ToDomainPayment(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payments", err)
	}
	return payments, nil
}
