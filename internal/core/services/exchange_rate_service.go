package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	portsrepo "github.com/donorops/pledge_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/internal/dto"
	"github.com/donorops/pledge_ledger_app/internal/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateNotFoundError reports that no applicable exchange rate exists for a
// currency pair on or before a given date.
type RateNotFoundError struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	RateDate         time.Time
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no exchange rate found for %s to %s on or before %s",
		e.FromCurrencyCode, e.ToCurrencyCode, e.RateDate.Format("2006-01-02"))
}

// exchangeRateService resolves historical rates and records new ones. All stored
// rates are quoted USD->currency; a cross rate is derived from the two USD legs.
type exchangeRateService struct {
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	cache    *rateCache
}

// NewExchangeRateService creates a new exchange rate service. The Redis client
// may be nil; rate lookups then use only the in-memory cache layer.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, redisClient *redis.Client, cacheTTL time.Duration) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo: rateRepo,
		cache:    newRateCache(redisClient, cacheTTL),
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate records a new USD-based rate. Rates are immutable; a rate
// for an already covered (pair, date) is rejected rather than updated.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fromCode := strings.ToUpper(req.FromCurrencyCode)
	toCode := strings.ToUpper(req.ToCurrencyCode)

	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if fromCode == toCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if fromCode != domain.USDCurrencyCode {
		return nil, fmt.Errorf("%w: rates are stored relative to USD; fromCurrencyCode must be %s", apperrors.ErrValidation, domain.USDCurrencyCode)
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a rate for %s on %s is already recorded", apperrors.ErrDuplicate, toCode, req.DateEffective.Format("2006-01-02"))
		}
		logger.Error("Failed to save exchange rate", slog.String("currency", toCode), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	// A newly recorded rate may supersede cached resolutions for later dates.
	s.cache.InvalidateCurrency(ctx, toCode)

	logger.Info("Exchange rate recorded", slog.String("rate_id", rate.ExchangeRateID), slog.String("currency", toCode), slog.Time("date_effective", rate.DateEffective))
	return &rate, nil
}

// ResolveRate resolves the conversion rate for from->to on a date. Both legs use
// the latest USD rate with an effective date on or before the requested date; a
// USD leg is exactly 1 without a lookup.
func (s *exchangeRateService) ResolveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (decimal.Decimal, error) {
	fromCode := strings.ToUpper(fromCurrencyCode)
	toCode := strings.ToUpper(toCurrencyCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return decimal.Zero, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}

	usdToFrom := decimal.NewFromInt(1)
	if fromCode != domain.USDCurrencyCode {
		rate, err := s.usdRate(ctx, fromCode, date)
		if err != nil {
			return decimal.Zero, s.rateError(fromCode, toCode, date, err)
		}
		usdToFrom = rate
	}

	usdToTo := decimal.NewFromInt(1)
	if toCode != domain.USDCurrencyCode {
		rate, err := s.usdRate(ctx, toCode, date)
		if err != nil {
			return decimal.Zero, s.rateError(fromCode, toCode, date, err)
		}
		usdToTo = rate
	}

	if usdToFrom.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero rate stored for %s", apperrors.ErrInternal, fromCode)
	}
	return usdToTo.Div(usdToFrom), nil
}

// usdRate fetches the USD->currency rate in effect on the date, consulting the
// cache before the repository.
func (s *exchangeRateService) usdRate(ctx context.Context, currencyCode string, date time.Time) (decimal.Decimal, error) {
	if cached := s.cache.Get(ctx, currencyCode, date); cached != nil {
		return cached.Rate, nil
	}

	rate, err := s.rateRepo.FindUSDRateOnOrBefore(ctx, currencyCode, date)
	if err != nil {
		return decimal.Zero, err
	}

	s.cache.Set(ctx, currencyCode, date, *rate)
	return rate.Rate, nil
}

func (s *exchangeRateService) rateError(fromCode, toCode string, date time.Time, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return &RateNotFoundError{FromCurrencyCode: fromCode, ToCurrencyCode: toCode, RateDate: date}
	}
	return fmt.Errorf("failed to resolve rate %s to %s: %w", fromCode, toCode, err)
}
