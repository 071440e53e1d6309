package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	portsrepo "github.com/donorops/pledge_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/internal/middleware"
	"github.com/donorops/pledge_ledger_app/internal/utils/money"
	"github.com/shopspring/decimal"
)

// recalculationService recomputes the derived aggregates on pledges and payment
// plans. Each recomputation is a full recompute, not a delta, and runs inside a
// transaction that locks the aggregate row first: two concurrent payment
// creations against the same pledge serialize instead of overwriting each other
// with stale sums.
type recalculationService struct {
	tx            portsrepo.TxManager
	pledgeRepo    portsrepo.PledgeRepositoryFacade
	planRepo      portsrepo.PaymentPlanRepositoryFacade
	paymentRepo   portsrepo.PaymentRepositoryFacade
	conversionSvc portssvc.ConversionSvcFacade
}

// NewRecalculationService creates a new aggregate recalculation service.
func NewRecalculationService(
	tx portsrepo.TxManager,
	pledgeRepo portsrepo.PledgeRepositoryFacade,
	planRepo portsrepo.PaymentPlanRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	conversionSvc portssvc.ConversionSvcFacade,
) portssvc.RecalculationSvcFacade {
	return &recalculationService{
		tx:            tx,
		pledgeRepo:    pledgeRepo,
		planRepo:      planRepo,
		paymentRepo:   paymentRepo,
		conversionSvc: conversionSvc,
	}
}

var _ portssvc.RecalculationSvcFacade = (*recalculationService)(nil)

// RecalculatePledge recomputes totalPaid/balance (and the USD variants) for a
// pledge from its completed, received payments and allocations. Stored converted
// amounts are reused; rows predating the converted columns are converted on the
// fly at their own received date.
func (s *recalculationService) RecalculatePledge(ctx context.Context, pledgeID string, requestedBy string) (*domain.Pledge, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin pledge recalculation: %w", err)
	}
	defer s.tx.Rollback(ctx, tx)

	pledge, err := s.pledgeRepo.FindPledgeByIDForUpdate(ctx, tx, pledgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pledge %s for recalculation: %w", pledgeID, err)
	}

	payments, err := s.paymentRepo.FindSettledPaymentsByPledgeIDInTx(ctx, tx, pledgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled payments for pledge %s: %w", pledgeID, err)
	}
	allocations, err := s.paymentRepo.FindSettledAllocationsByPledgeIDInTx(ctx, tx, pledgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled allocations for pledge %s: %w", pledgeID, err)
	}

	totalPaid := decimal.Zero
	totalPaidUsd := decimal.Zero

	for _, p := range payments {
		rateDate := p.PaymentDate
		if p.ReceivedDate != nil {
			rateDate = *p.ReceivedDate
		}

		inPledge, err := s.reuseOrConvert(ctx, p.AmountInPledgeCurrency, p.Amount, p.CurrencyCode, pledge.CurrencyCode, rateDate, domain.ConversionPledge)
		if err != nil {
			return nil, err
		}
		totalPaid = totalPaid.Add(inPledge)

		usd, err := s.reuseOrConvert(ctx, &p.AmountUsd, p.Amount, p.CurrencyCode, domain.USDCurrencyCode, rateDate, domain.ConversionUSDReporting)
		if err != nil {
			return nil, err
		}
		totalPaidUsd = totalPaidUsd.Add(usd)
	}

	for _, a := range allocations {
		inPledge, err := s.reuseOrConvert(ctx, &a.AllocatedAmountInPledgeCurrency, a.AllocatedAmount, a.CurrencyCode, pledge.CurrencyCode, a.ReceivedDate, domain.ConversionPledge)
		if err != nil {
			return nil, err
		}
		totalPaid = totalPaid.Add(inPledge)

		usd, err := s.reuseOrConvert(ctx, &a.AllocatedAmountUsd, a.AllocatedAmount, a.CurrencyCode, domain.USDCurrencyCode, a.ReceivedDate, domain.ConversionUSDReporting)
		if err != nil {
			return nil, err
		}
		totalPaidUsd = totalPaidUsd.Add(usd)
	}

	totalPaid = money.RoundAmount(totalPaid)
	totalPaidUsd = money.RoundAmount(totalPaidUsd)

	agg := domain.PledgeAggregates{
		TotalPaid:    totalPaid,
		TotalPaidUsd: &totalPaidUsd,
		Balance:      money.FloorZero(pledge.OriginalAmount.Sub(totalPaid)),
	}
	if pledge.OriginalAmountUsd != nil {
		balanceUsd := money.FloorZero(pledge.OriginalAmountUsd.Sub(totalPaidUsd))
		agg.BalanceUsd = &balanceUsd
	}

	now := time.Now().UTC()
	if err := s.pledgeRepo.UpdatePledgeAggregatesInTx(ctx, tx, pledgeID, agg, requestedBy, now); err != nil {
		return nil, fmt.Errorf("failed to write pledge %s aggregates: %w", pledgeID, err)
	}
	if err := s.tx.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit pledge %s recalculation: %w", pledgeID, err)
	}

	pledge.TotalPaid = agg.TotalPaid
	pledge.TotalPaidUsd = agg.TotalPaidUsd
	pledge.Balance = agg.Balance
	pledge.BalanceUsd = agg.BalanceUsd
	pledge.LastUpdatedAt = now
	pledge.LastUpdatedBy = requestedBy

	logger.Debug("Pledge aggregates recalculated",
		slog.String("pledge_id", pledgeID),
		slog.String("total_paid", agg.TotalPaid.String()),
		slog.String("balance", agg.Balance.String()),
	)
	return pledge, nil
}

// RecalculatePaymentPlan recomputes totalPaid/installmentsPaid/remainingAmount
// for a plan from its completed, received payments. Plan-level USD figures are
// deliberately struck at today's rate, not each payment's received date: plan
// totals are a live snapshot, unlike pledge postings which stay struck at
// payment time.
func (s *recalculationService) RecalculatePaymentPlan(ctx context.Context, planID string, requestedBy string) (*domain.PaymentPlan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin plan recalculation: %w", err)
	}
	defer s.tx.Rollback(ctx, tx)

	plan, err := s.planRepo.FindPaymentPlanByIDForUpdate(ctx, tx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock payment plan %s for recalculation: %w", planID, err)
	}

	payments, err := s.paymentRepo.FindSettledPaymentsByPlanIDInTx(ctx, tx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled payments for plan %s: %w", planID, err)
	}

	totalPaid := decimal.Zero
	for _, p := range payments {
		rateDate := p.PaymentDate
		if p.ReceivedDate != nil {
			rateDate = *p.ReceivedDate
		}
		inPlan, err := s.reuseOrConvert(ctx, p.AmountInPlanCurrency, p.Amount, p.CurrencyCode, plan.CurrencyCode, rateDate, domain.ConversionPlan)
		if err != nil {
			return nil, err
		}
		totalPaid = totalPaid.Add(inPlan)
	}

	totalPaid = money.RoundAmount(totalPaid)
	remaining := money.FloorZero(plan.TotalPlannedAmount.Sub(totalPaid))

	totalPaidUsd, err := s.convertAt(ctx, totalPaid, plan.CurrencyCode, domain.USDCurrencyCode, time.Now().UTC(), domain.ConversionPlanUSDSnapshot)
	if err != nil {
		return nil, err
	}
	remainingUsd, err := s.convertAt(ctx, remaining, plan.CurrencyCode, domain.USDCurrencyCode, time.Now().UTC(), domain.ConversionPlanUSDSnapshot)
	if err != nil {
		return nil, err
	}

	agg := domain.PaymentPlanAggregates{
		TotalPaid:          totalPaid,
		TotalPaidUsd:       &totalPaidUsd,
		InstallmentsPaid:   len(payments),
		RemainingAmount:    remaining,
		RemainingAmountUsd: &remainingUsd,
	}

	now := time.Now().UTC()
	if err := s.planRepo.UpdatePaymentPlanAggregatesInTx(ctx, tx, planID, agg, requestedBy, now); err != nil {
		return nil, fmt.Errorf("failed to write plan %s aggregates: %w", planID, err)
	}
	if err := s.tx.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit plan %s recalculation: %w", planID, err)
	}

	plan.TotalPaid = agg.TotalPaid
	plan.TotalPaidUsd = agg.TotalPaidUsd
	plan.InstallmentsPaid = agg.InstallmentsPaid
	plan.RemainingAmount = agg.RemainingAmount
	plan.RemainingAmountUsd = agg.RemainingAmountUsd
	plan.LastUpdatedAt = now
	plan.LastUpdatedBy = requestedBy

	logger.Debug("Payment plan aggregates recalculated",
		slog.String("plan_id", planID),
		slog.String("total_paid", agg.TotalPaid.String()),
		slog.Int("installments_paid", agg.InstallmentsPaid),
	)
	return plan, nil
}

// reuseOrConvert returns the stored converted amount when present, otherwise
// converts the original amount at the given rate date.
func (s *recalculationService) reuseOrConvert(ctx context.Context, stored *decimal.Decimal, amount decimal.Decimal, fromCurrency, toCurrency string, rateDate time.Time, conversionType domain.ConversionType) (decimal.Decimal, error) {
	if stored != nil {
		return *stored, nil
	}
	return s.convertAt(ctx, amount, fromCurrency, toCurrency, rateDate, conversionType)
}

// convertAt runs a typed conversion through the converter. Recalculation
// conversions are recomputations of already-audited figures, so the built log
// row is intentionally not persisted.
func (s *recalculationService) convertAt(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string, rateDate time.Time, conversionType domain.ConversionType) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return money.RoundAmount(amount), nil
	}
	result, err := s.conversionSvc.Convert(ctx, portssvc.ConvertCommand{
		Amount:           amount,
		FromCurrencyCode: fromCurrency,
		ToCurrencyCode:   toCurrency,
		RateDate:         rateDate,
		ConversionType:   conversionType,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return result.ConvertedAmount, nil
}
