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
	"github.com/donorops/pledge_ledger_app/internal/middleware"
	"github.com/donorops/pledge_ledger_app/internal/utils/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// currencyConversionService converts amounts between currencies. The monetary
// result is authoritative; the audit trail around it is best-effort.
type currencyConversionService struct {
	exchangeRateSvc portssvc.ExchangeRateSvcFacade
	logRepo         portsrepo.ConversionLogRepositoryFacade
}

// NewConversionService creates a new currency conversion service.
func NewConversionService(exchangeRateSvc portssvc.ExchangeRateSvcFacade, logRepo portsrepo.ConversionLogRepositoryFacade) portssvc.ConversionSvcFacade {
	return &currencyConversionService{
		exchangeRateSvc: exchangeRateSvc,
		logRepo:         logRepo,
	}
}

var _ portssvc.ConversionSvcFacade = (*currencyConversionService)(nil)

// Convert resolves the applicable rate and computes the converted amount.
// Amounts are rounded to 2 decimal places and rates to 4 before they enter
// persistence, so repeated conversions of the same logical amount do not drift.
// The returned audit row is not persisted; callers either pass it into the same
// transaction as the payment it belongs to, or use ConvertAndLog.
func (s *currencyConversionService) Convert(ctx context.Context, cmd portssvc.ConvertCommand) (*portssvc.ConversionResult, error) {
	if cmd.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	rate, err := s.exchangeRateSvc.ResolveRate(ctx, cmd.FromCurrencyCode, cmd.ToCurrencyCode, cmd.RateDate)
	if err != nil {
		return nil, err
	}

	roundedRate := money.RoundRate(rate)
	converted := money.RoundAmount(cmd.Amount.Mul(roundedRate))

	requestedBy := cmd.RequestedBy
	if requestedBy == "" {
		requestedBy = middleware.GetActorFromCtx(ctx)
	}

	result := &portssvc.ConversionResult{
		ConvertedAmount: converted,
		Rate:            roundedRate,
		Log: domain.CurrencyConversionLog{
			ConversionLogID:  uuid.NewString(),
			PaymentID:        cmd.PaymentID,
			FromCurrencyCode: cmd.FromCurrencyCode,
			ToCurrencyCode:   cmd.ToCurrencyCode,
			FromAmount:       money.RoundAmount(cmd.Amount),
			ToAmount:         converted,
			Rate:             roundedRate,
			ConversionDate:   cmd.RateDate,
			ConversionType:   cmd.ConversionType,
			CreatedAt:        time.Now().UTC(),
			CreatedBy:        requestedBy,
		},
	}
	return result, nil
}

// ConvertAndLog converts and, when a payment id is supplied, appends the audit
// row. Audit failures are logged and swallowed: the trail is best-effort, the
// monetary calculation is not.
func (s *currencyConversionService) ConvertAndLog(ctx context.Context, cmd portssvc.ConvertCommand) (*portssvc.ConversionResult, error) {
	result, err := s.Convert(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if cmd.PaymentID != nil {
		if logErr := s.logRepo.SaveConversionLog(ctx, result.Log); logErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to append conversion log",
				slog.String("payment_id", *cmd.PaymentID),
				slog.String("conversion_type", string(cmd.ConversionType)),
				slog.String("error", logErr.Error()),
			)
		}
	}
	return result, nil
}

// sameCurrencyResult builds the short-circuit result for a conversion where no
// rate lookup is needed.
func sameCurrencyResult(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	return money.RoundAmount(amount), decimal.NewFromInt(1)
}
