package services_test

import (
	"context"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	portsrepo "github.com/donorops/pledge_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindUSDRateOnOrBefore(ctx context.Context, currencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currencyCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Mock ConversionLogRepository ---
type MockConversionLogRepository struct {
	mock.Mock
}

var _ portsrepo.ConversionLogRepositoryFacade = (*MockConversionLogRepository)(nil)

func (m *MockConversionLogRepository) SaveConversionLog(ctx context.Context, log domain.CurrencyConversionLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// --- Mock PledgeRepository ---
type MockPledgeRepository struct {
	mock.Mock
}

var _ portsrepo.PledgeRepositoryFacade = (*MockPledgeRepository)(nil)

func (m *MockPledgeRepository) FindPledgeByID(ctx context.Context, pledgeID string) (*domain.Pledge, error) {
	args := m.Called(ctx, pledgeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) FindPledgesByIDs(ctx context.Context, pledgeIDs []string) (map[string]domain.Pledge, error) {
	args := m.Called(ctx, pledgeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) FindPledgeByIDForUpdate(ctx context.Context, tx pgx.Tx, pledgeID string) (*domain.Pledge, error) {
	args := m.Called(ctx, tx, pledgeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) UpdatePledgeAggregatesInTx(ctx context.Context, tx pgx.Tx, pledgeID string, agg domain.PledgeAggregates, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, pledgeID, agg, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock PaymentPlanRepository ---
type MockPaymentPlanRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentPlanRepositoryFacade = (*MockPaymentPlanRepository)(nil)

func (m *MockPaymentPlanRepository) FindPaymentPlanByID(ctx context.Context, planID string) (*domain.PaymentPlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentPlan), args.Error(1)
}

func (m *MockPaymentPlanRepository) FindPaymentPlanByIDForUpdate(ctx context.Context, tx pgx.Tx, planID string) (*domain.PaymentPlan, error) {
	args := m.Called(ctx, tx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentPlan), args.Error(1)
}

func (m *MockPaymentPlanRepository) UpdatePaymentPlanAggregatesInTx(ctx context.Context, tx pgx.Tx, planID string, agg domain.PaymentPlanAggregates, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, planID, agg, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, allocations []domain.PaymentAllocation, tagIDs []string, conversionLogs []domain.CurrencyConversionLog, installmentUpdates []domain.InstallmentStatusUpdate) error {
	args := m.Called(ctx, payment, allocations, tagIDs, conversionLogs, installmentUpdates)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentRepository) FindSettledPaymentsByPledgeIDInTx(ctx context.Context, tx pgx.Tx, pledgeID string) ([]domain.Payment, error) {
	args := m.Called(ctx, tx, pledgeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindSettledAllocationsByPledgeIDInTx(ctx context.Context, tx pgx.Tx, pledgeID string) ([]domain.SettledAllocation, error) {
	args := m.Called(ctx, tx, pledgeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SettledAllocation), args.Error(1)
}

func (m *MockPaymentRepository) FindSettledPaymentsByPlanIDInTx(ctx context.Context, tx pgx.Tx, planID string) ([]domain.Payment, error) {
	args := m.Called(ctx, tx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// --- Mock TagRepository ---
type MockTagRepository struct {
	mock.Mock
}

var _ portsrepo.TagRepositoryFacade = (*MockTagRepository)(nil)

func (m *MockTagRepository) FindTagsByIDs(ctx context.Context, tagIDs []string) (map[string]domain.Tag, error) {
	args := m.Called(ctx, tagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Tag), args.Error(1)
}

func (m *MockTagRepository) FindTagsByPaymentID(ctx context.Context, paymentID string) ([]domain.Tag, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

// --- Mock InstallmentRepository ---
type MockInstallmentRepository struct {
	mock.Mock
}

var _ portsrepo.InstallmentRepositoryFacade = (*MockInstallmentRepository)(nil)

func (m *MockInstallmentRepository) FindInstallmentScheduleByID(ctx context.Context, installmentScheduleID string) (*domain.InstallmentSchedule, error) {
	args := m.Called(ctx, installmentScheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstallmentSchedule), args.Error(1)
}

// --- Mock TxManager ---
type MockTxManager struct {
	mock.Mock
}

var _ portsrepo.TxManager = (*MockTxManager)(nil)

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) ResolveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, date)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock ConversionService ---
type MockConversionService struct {
	mock.Mock
}

var _ portssvc.ConversionSvcFacade = (*MockConversionService)(nil)

func (m *MockConversionService) Convert(ctx context.Context, cmd portssvc.ConvertCommand) (*portssvc.ConversionResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.ConversionResult), args.Error(1)
}

func (m *MockConversionService) ConvertAndLog(ctx context.Context, cmd portssvc.ConvertCommand) (*portssvc.ConversionResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.ConversionResult), args.Error(1)
}

// --- Mock RecalculationService ---
type MockRecalculationService struct {
	mock.Mock
}

var _ portssvc.RecalculationSvcFacade = (*MockRecalculationService)(nil)

func (m *MockRecalculationService) RecalculatePledge(ctx context.Context, pledgeID string, requestedBy string) (*domain.Pledge, error) {
	args := m.Called(ctx, pledgeID, requestedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pledge), args.Error(1)
}

func (m *MockRecalculationService) RecalculatePaymentPlan(ctx context.Context, planID string, requestedBy string) (*domain.PaymentPlan, error) {
	args := m.Called(ctx, planID, requestedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentPlan), args.Error(1)
}
