package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	portsrepo "github.com/donorops/pledge_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/internal/dto"
	"github.com/donorops/pledge_ledger_app/internal/middleware"
	"github.com/donorops/pledge_ledger_app/internal/utils/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// paymentService is the write path for payments: it validates the request shape
// and allocations, strikes every conversion at a single rate date, persists the
// payment atomically, and triggers aggregate recalculation for everything the
// payment touched.
type paymentService struct {
	paymentRepo     portsrepo.PaymentRepositoryFacade
	pledgeRepo      portsrepo.PledgeRepositoryFacade
	planRepo        portsrepo.PaymentPlanRepositoryFacade
	tagRepo         portsrepo.TagRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
	conversionSvc   portssvc.ConversionSvcFacade
	recalcSvc       portssvc.RecalculationSvcFacade
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	pledgeRepo portsrepo.PledgeRepositoryFacade,
	planRepo portsrepo.PaymentPlanRepositoryFacade,
	tagRepo portsrepo.TagRepositoryFacade,
	installmentRepo portsrepo.InstallmentRepositoryFacade,
	conversionSvc portssvc.ConversionSvcFacade,
	recalcSvc portssvc.RecalculationSvcFacade,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo:     paymentRepo,
		pledgeRepo:      pledgeRepo,
		planRepo:        planRepo,
		tagRepo:         tagRepo,
		installmentRepo: installmentRepo,
		conversionSvc:   conversionSvc,
		recalcSvc:       recalcSvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment creates a single-pledge or split payment with its allocations.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, []domain.PaymentAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	shape, err := classifyPaymentShape(req)
	if err != nil {
		return nil, nil, err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	// One rate date per request: every conversion inside this payment is struck
	// at the same date so the pledge-currency, plan-currency, and USD amounts
	// stay mutually consistent. The received date wins over the payment date.
	now := time.Now().UTC()
	rateDate := now
	if req.ReceivedDate != nil {
		rateDate = *req.ReceivedDate
	}

	if err := s.validateTags(ctx, req.TagIDs); err != nil {
		return nil, nil, err
	}

	var plan *domain.PaymentPlan
	if req.PaymentPlanID != nil {
		plan, err = s.planRepo.FindPaymentPlanByID(ctx, *req.PaymentPlanID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve payment plan %s: %w", *req.PaymentPlanID, err)
		}
	}

	if err := s.validateInstallments(ctx, req, shape, plan); err != nil {
		return nil, nil, err
	}

	paymentID := uuid.NewString()
	builder := &conversionBatch{
		svc:       s.conversionSvc,
		paymentID: paymentID,
		rateDate:  rateDate,
		actor:     creatorUserID,
	}

	payment := domain.Payment{
		PaymentID:             paymentID,
		Amount:                money.RoundAmount(req.Amount),
		CurrencyCode:          req.CurrencyCode,
		PaymentDate:           req.PaymentDate,
		ReceivedDate:          req.ReceivedDate,
		PaymentStatus:         req.PaymentStatus,
		IsThirdPartyPayment:   req.IsThirdPartyPayment,
		PayerContactID:        req.PayerContactID,
		PaymentPlanID:         req.PaymentPlanID,
		InstallmentScheduleID: req.InstallmentScheduleID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	amountUsd, _, err := builder.convert(ctx, req.Amount, req.CurrencyCode, domain.USDCurrencyCode, domain.ConversionUSDReporting)
	if err != nil {
		return nil, nil, err
	}
	payment.AmountUsd = amountUsd

	if plan != nil {
		planAmount, planRate, err := builder.convert(ctx, req.Amount, req.CurrencyCode, plan.CurrencyCode, domain.ConversionPlan)
		if err != nil {
			return nil, nil, err
		}
		payment.AmountInPlanCurrency = &planAmount
		payment.PlanCurrencyExchangeRate = &planRate
	}

	var allocations []domain.PaymentAllocation
	var installmentUpdates []domain.InstallmentStatusUpdate
	var touchedPledgeIDs []string

	switch shape.Kind {
	case ShapeSinglePledge:
		pledge, err := s.pledgeRepo.FindPledgeByID(ctx, shape.PledgeID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve pledge %s: %w", shape.PledgeID, err)
		}

		pledgeAmount, pledgeRate, err := builder.convert(ctx, req.Amount, req.CurrencyCode, pledge.CurrencyCode, domain.ConversionPledge)
		if err != nil {
			return nil, nil, err
		}
		payment.PledgeID = &pledge.PledgeID
		payment.AmountInPledgeCurrency = &pledgeAmount
		payment.PledgeCurrencyExchangeRate = &pledgeRate
		touchedPledgeIDs = []string{pledge.PledgeID}

		if req.InstallmentScheduleID != nil {
			installmentUpdates = append(installmentUpdates, installmentUpdateFor(*req.InstallmentScheduleID, req.PaymentStatus, req.ReceivedDate, req.PaymentDate))
		}

	case ShapeSplit, ShapeMultiContact:
		pledges, err := s.validateAllocations(ctx, req.Amount, shape.Allocations)
		if err != nil {
			return nil, nil, err
		}

		for _, input := range shape.Allocations {
			pledge := pledges[input.PledgeID]

			allocCurrency := req.CurrencyCode
			if input.CurrencyCode != nil {
				allocCurrency = *input.CurrencyCode
			}

			allocatedUsd, _, err := builder.convert(ctx, input.AllocatedAmount, allocCurrency, domain.USDCurrencyCode, domain.ConversionUSDReporting)
			if err != nil {
				return nil, nil, err
			}
			allocatedInPledge, _, err := builder.convert(ctx, input.AllocatedAmount, allocCurrency, pledge.CurrencyCode, domain.ConversionPledge)
			if err != nil {
				return nil, nil, err
			}

			payerContactID := input.PayerContactID
			if payerContactID == nil {
				payerContactID = req.PayerContactID
			}

			allocations = append(allocations, domain.PaymentAllocation{
				AllocationID:                    uuid.NewString(),
				PaymentID:                       paymentID,
				PledgeID:                        input.PledgeID,
				PayerContactID:                  payerContactID,
				AllocatedAmount:                 money.RoundAmount(input.AllocatedAmount),
				AllocatedAmountUsd:              allocatedUsd,
				AllocatedAmountInPledgeCurrency: allocatedInPledge,
				CurrencyCode:                    allocCurrency,
				InstallmentScheduleID:           input.InstallmentScheduleID,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     creatorUserID,
					LastUpdatedAt: now,
					LastUpdatedBy: creatorUserID,
				},
			})

			if input.InstallmentScheduleID != nil {
				installmentUpdates = append(installmentUpdates, installmentUpdateFor(*input.InstallmentScheduleID, req.PaymentStatus, req.ReceivedDate, req.PaymentDate))
			}
		}
		touchedPledgeIDs = distinctPledgeIDs(allocations)
	}

	err = s.paymentRepo.SavePayment(ctx, payment, allocations, req.TagIDs, builder.logs, installmentUpdates)
	if err != nil {
		logger.Error("Failed to save payment", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to save payment: %w", err)
	}

	// Recalculate once per distinct pledge touched, then once for the plan.
	for _, pledgeID := range touchedPledgeIDs {
		if _, err := s.recalcSvc.RecalculatePledge(ctx, pledgeID, creatorUserID); err != nil {
			logger.Error("Failed to recalculate pledge after payment", slog.String("pledge_id", pledgeID), slog.String("payment_id", paymentID), slog.String("error", err.Error()))
			return nil, nil, fmt.Errorf("payment %s saved but pledge %s recalculation failed: %w", paymentID, pledgeID, err)
		}
	}
	if req.PaymentPlanID != nil {
		if _, err := s.recalcSvc.RecalculatePaymentPlan(ctx, *req.PaymentPlanID, creatorUserID); err != nil {
			logger.Error("Failed to recalculate payment plan after payment", slog.String("plan_id", *req.PaymentPlanID), slog.String("payment_id", paymentID), slog.String("error", err.Error()))
			return nil, nil, fmt.Errorf("payment %s saved but plan %s recalculation failed: %w", paymentID, *req.PaymentPlanID, err)
		}
	}

	logger.Info("Payment created",
		slog.String("payment_id", paymentID),
		slog.String("shape", string(shape.Kind)),
		slog.Int("allocations", len(allocations)),
	)
	return &payment, allocations, nil
}

// validateAllocations checks a proposed allocation set against the payment
// amount and the referenced pledges. Pledge existence is a single batch lookup;
// every missing id is reported at once.
func (s *paymentService) validateAllocations(ctx context.Context, paymentAmount decimal.Decimal, inputs []dto.AllocationInput) (map[string]domain.Pledge, error) {
	total := decimal.Zero
	pledgeIDs := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if input.AllocatedAmount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: allocated amount must be positive for pledge %s", apperrors.ErrValidation, input.PledgeID)
		}
		total = total.Add(input.AllocatedAmount)
		pledgeIDs = append(pledgeIDs, input.PledgeID)
	}

	if !money.WithinTolerance(total, paymentAmount) {
		return nil, &AllocationMismatchError{
			PaymentAmount:  paymentAmount,
			AllocatedTotal: total,
			Difference:     total.Sub(paymentAmount),
		}
	}

	pledges, err := s.pledgeRepo.FindPledgesByIDs(ctx, uniqueStrings(pledgeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pledges for allocations: %w", err)
	}

	var missing []string
	for _, id := range uniqueStrings(pledgeIDs) {
		if _, ok := pledges[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &PledgeNotFoundError{MissingIDs: missing}
	}
	return pledges, nil
}

// validateInstallments resolves every installment schedule the request
// references before any status update is queued, so a bogus id fails up front
// as a not-found instead of dying on a constraint inside the payment write.
// When the payment names a plan, each installment must belong to it.
func (s *paymentService) validateInstallments(ctx context.Context, req dto.CreatePaymentRequest, shape PaymentShape, plan *domain.PaymentPlan) error {
	var ids []string
	if req.InstallmentScheduleID != nil {
		ids = append(ids, *req.InstallmentScheduleID)
	}
	for _, input := range shape.Allocations {
		if input.InstallmentScheduleID != nil {
			ids = append(ids, *input.InstallmentScheduleID)
		}
	}

	for _, id := range uniqueStrings(ids) {
		schedule, err := s.installmentRepo.FindInstallmentScheduleByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to resolve installment schedule %s: %w", id, err)
		}
		if plan != nil && schedule.PaymentPlanID != plan.PaymentPlanID {
			return fmt.Errorf("%w: installment schedule %s does not belong to payment plan %s", apperrors.ErrValidation, id, plan.PaymentPlanID)
		}
	}
	return nil
}

// validateTags ensures every requested tag exists, is active, and is flagged for
// payment use. Any offending id fails the whole creation.
func (s *paymentService) validateTags(ctx context.Context, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	tags, err := s.tagRepo.FindTagsByIDs(ctx, uniqueStrings(tagIDs))
	if err != nil {
		return fmt.Errorf("failed to fetch tags: %w", err)
	}

	var offending []string
	for _, id := range uniqueStrings(tagIDs) {
		tag, ok := tags[id]
		if !ok || !tag.AttachableToPayment() {
			offending = append(offending, id)
		}
	}
	if len(offending) > 0 {
		return &InvalidTagsError{TagIDs: offending}
	}
	return nil
}

// conversionBatch runs conversions for one payment at its shared rate date and
// collects the audit rows so the repository can write them in the same
// transaction as the payment (transactional outbox). Same-currency conversions
// short-circuit to rate 1 with no lookup and no audit row.
type conversionBatch struct {
	svc       portssvc.ConversionSvcFacade
	paymentID string
	rateDate  time.Time
	actor     string
	logs      []domain.CurrencyConversionLog
}

func (b *conversionBatch) convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string, conversionType domain.ConversionType) (decimal.Decimal, decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		converted, rate := sameCurrencyResult(amount)
		return converted, rate, nil
	}

	result, err := b.svc.Convert(ctx, portssvc.ConvertCommand{
		Amount:           amount,
		FromCurrencyCode: fromCurrency,
		ToCurrencyCode:   toCurrency,
		RateDate:         b.rateDate,
		PaymentID:        &b.paymentID,
		ConversionType:   conversionType,
		RequestedBy:      b.actor,
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	b.logs = append(b.logs, result.Log)
	return result.ConvertedAmount, result.Rate, nil
}

// installmentUpdateFor maps a payment status onto the installment it settles.
// The paid date is only set when the installment transitions to paid.
func installmentUpdateFor(installmentScheduleID string, status domain.PaymentStatus, receivedDate *time.Time, paymentDate time.Time) domain.InstallmentStatusUpdate {
	update := domain.InstallmentStatusUpdate{InstallmentScheduleID: installmentScheduleID}

	switch status {
	case domain.PaymentCompleted, domain.PaymentProcessing:
		update.Status = domain.InstallmentPaid
		if receivedDate != nil {
			update.PaidDate = receivedDate
		} else if !paymentDate.IsZero() {
			update.PaidDate = &paymentDate
		}
	case domain.PaymentCancelled, domain.PaymentFailed:
		update.Status = domain.InstallmentCancelled
	default:
		update.Status = domain.InstallmentPending
	}
	return update
}

func distinctPledgeIDs(allocations []domain.PaymentAllocation) []string {
	ids := make([]string, 0, len(allocations))
	for _, a := range allocations {
		ids = append(ids, a.PledgeID)
	}
	return uniqueStrings(ids)
}

// uniqueStrings returns the distinct values of a slice, preserving first-seen
// order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
