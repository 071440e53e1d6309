package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RecalculationServiceTestSuite struct {
	suite.Suite
	mockTx          *MockTxManager
	mockPledgeRepo  *MockPledgeRepository
	mockPlanRepo    *MockPaymentPlanRepository
	mockPaymentRepo *MockPaymentRepository
	mockConversion  *MockConversionService
	service         portssvc.RecalculationSvcFacade
	userID          string
	receivedDate    time.Time
}

func (suite *RecalculationServiceTestSuite) SetupTest() {
	suite.mockTx = new(MockTxManager)
	suite.mockPledgeRepo = new(MockPledgeRepository)
	suite.mockPlanRepo = new(MockPaymentPlanRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockConversion = new(MockConversionService)
	suite.service = services.NewRecalculationService(
		suite.mockTx,
		suite.mockPledgeRepo,
		suite.mockPlanRepo,
		suite.mockPaymentRepo,
		suite.mockConversion,
	)
	suite.userID = uuid.NewString()
	suite.receivedDate = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	suite.mockTx.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockTx.On("Commit", mock.Anything, mock.Anything).Return(nil)
	suite.mockTx.On("Rollback", mock.Anything, mock.Anything).Return(nil)
}

// expectBackfillConversion wires a typed conversion for rows whose stored
// converted amounts are absent.
func (suite *RecalculationServiceTestSuite) expectBackfillConversion(from, to, amount, rate string, conversionType domain.ConversionType, rateDate time.Time) {
	amt := decimal.RequireFromString(amount)
	r := decimal.RequireFromString(rate)
	suite.mockConversion.On("Convert", mock.Anything, mock.MatchedBy(func(cmd portssvc.ConvertCommand) bool {
		return cmd.FromCurrencyCode == from &&
			cmd.ToCurrencyCode == to &&
			cmd.Amount.Equal(amt) &&
			cmd.ConversionType == conversionType &&
			cmd.RateDate.Equal(rateDate) &&
			cmd.PaymentID == nil
	})).Return(&portssvc.ConversionResult{
		ConvertedAmount: amt.Mul(r).Round(2),
		Rate:            r,
	}, nil).Once()
}

func (suite *RecalculationServiceTestSuite) lockedPledge(currency, originalAmount string) *domain.Pledge {
	return &domain.Pledge{
		PledgeID:       uuid.NewString(),
		ContactID:      uuid.NewString(),
		CurrencyCode:   currency,
		OriginalAmount: decimal.RequireFromString(originalAmount),
	}
}

func (suite *RecalculationServiceTestSuite) settledPayment(amount, currency string, inPledge, inUsd *string) domain.Payment {
	p := domain.Payment{
		PaymentID:     uuid.NewString(),
		Amount:        decimal.RequireFromString(amount),
		CurrencyCode:  currency,
		PaymentStatus: domain.PaymentCompleted,
		PaymentDate:   suite.receivedDate,
		ReceivedDate:  &suite.receivedDate,
	}
	if inPledge != nil {
		v := decimal.RequireFromString(*inPledge)
		p.AmountInPledgeCurrency = &v
	}
	if inUsd != nil {
		p.AmountUsd = decimal.RequireFromString(*inUsd)
	}
	return p
}

func strPtr(s string) *string { return &s }

// --- RecalculatePledge ---

func (suite *RecalculationServiceTestSuite) TestRecalculatePledge_NoPaymentsResetsToOriginal() {
	ctx := context.Background()
	pledge := suite.lockedPledge("USD", "1000")
	originalUsd := decimal.RequireFromString("1000")
	pledge.OriginalAmountUsd = &originalUsd

	suite.mockPledgeRepo.On("FindPledgeByIDForUpdate", ctx, mock.Anything, pledge.PledgeID).Return(pledge, nil).Once()
	suite.mockPaymentRepo.On("FindSettledPaymentsByPledgeIDInTx", ctx, mock.Anything, pledge.PledgeID).
		Return([]domain.Payment{}, nil).Once()
	suite.mockPaymentRepo.On("FindSettledAllocationsByPledgeIDInTx", ctx, mock.Anything, pledge.PledgeID).
		Return([]domain.SettledAllocation{}, nil).Once()

	var savedAgg domain.PledgeAggregates
	suite.mockPledgeRepo.On("UpdatePledgeAggregatesInTx", ctx, mock.Anything, pledge.PledgeID,
		mock.AnythingOfType("domain.PledgeAggregates"), suite.userID, mock.AnythingOfType("time.Time"),
	).Run(func(args mock.Arguments) {
		savedAgg = args.Get(3).(domain.PledgeAggregates)
	}).Return(nil).Once()

	updated, err := suite.service.RecalculatePledge(ctx, pledge.PledgeID, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedAgg.TotalPaid.IsZero())
	suite.True(savedAgg.Balance.Equal(decimal.RequireFromString("1000")))
	suite.Require().NotNil(savedAgg.BalanceUsd)
	suite.True(savedAgg.BalanceUsd.Equal(decimal.RequireFromString("1000")))
	suite.True(updated.TotalPaid.IsZero())
	suite.mockPledgeRepo.AssertExpectations(suite.T())
}

func (suite *RecalculationServiceTestSuite) TestRecalculatePledge_ReusesStoredConvertedAmounts() {
	ctx := context.Background()
	pledge := suite.lockedPledge("GBP", "1000")

	payment := suite.settledPayment("100", "EUR", strPtr("85.00"), strPtr("110.00"))
	allocation := domain.SettledAllocation{
		PaymentAllocation: domain.PaymentAllocation{
			AllocationID:                    uuid.NewString(),
			PledgeID:                        pledge.PledgeID,
			AllocatedAmount:                 decimal.RequireFromString("50"),
			AllocatedAmountUsd:              decimal.RequireFromString("55.00"),
			AllocatedAmountInPledgeCurrency: decimal.RequireFromString("42.50"),
			CurrencyCode:                    "EUR",
		},
		ReceivedDate: suite.receivedDate,
	}

	suite.mockPledgeRepo.On("FindPledgeByIDForUpdate", ctx, mock.Anything, pledge.PledgeID).Return(pledge, nil).Once()
	suite.mockPaymentRepo.On("FindSettledPaymentsByPledgeIDInTx", ctx, mock.Anything, pledge.PledgeID).
		Return([]domain.Payment{payment}, nil).Once()
	suite.mockPaymentRepo.On("FindSettledAllocationsByPledgeIDInTx", ctx, mock.Anything, pledge.PledgeID).
		Return([]domain.SettledAllocation{allocation}, nil).Once()

	var savedAgg domain.PledgeAggregates
	suite.mockPledgeRepo.On("UpdatePledgeAggregatesInTx", ctx, mock.Anything, pledge.PledgeID,
		mock.AnythingOfType("domain.PledgeAggregates"), suite.userID, mock.AnythingOfType("time.Time"),
	).Run(func(args mock.Arguments) {
		savedAgg = args.Get(3).(domain.PledgeAggregates)
	}).Return(nil).Once()

	_, err := suite.service.RecalculatePledge(ctx, pledge.PledgeID, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedAgg.TotalPaid.Equal(decimal.RequireFromString("127.50")), "total paid was %s", savedAgg.TotalPaid)
	suite.Require().NotNil(savedAgg.TotalPaidUsd)
	suite.True(savedAgg.TotalPaidUsd.Equal(decimal.RequireFromString("165.00")))
	suite.True(savedAgg.Balance.Equal(decimal.RequireFromString("872.50")))
	// Stored converted amounts are authoritative; no conversions happen.
	suite.mockConversion.AssertNotCalled(suite.T(), "Convert")
}

func (suite *RecalculationServiceTestSuite) TestRecalculatePledge_ConvertsRowsMissingStoredAmounts() {
	ctx := context.Background()
	pledge := suite.lockedPledge("EUR", "1000")

	// A row predating the converted columns: pledge-currency amount missing.
	payment := suite.settledPayment("100", "USD", nil, strPtr("100.00"))

	suite.mockPledgeRepo.On("FindPledgeByIDForUpdate", ctx, mock.Anything, pledge.PledgeID).Return(pledge, nil).Once()
	suite.mockPaymentRepo.On("FindSettledPaymentsByPledgeIDInTx", ctx, mock.Anything, pledge.PledgeID).
		Return([]domain.Payment{payment}, nil).Once()
	suite.mockPaymentRepo.On("FindSettledAllocationsByPledgeIDInTx", ctx, mock.Anything, pledge.PledgeID).
		Return([]domain.SettledAllocation{}, nil).Once()
	// Converted at the payment's own received date, not today.
	suite.expectBackfillConversion("USD", "EUR", "100", "0.9", domain.ConversionPledge, suite.receivedDate)

	var savedAgg domain.PledgeAggregates
	suite.mockPledgeRepo.On("UpdatePledgeAggregatesInTx", ctx, mock.Anything, pledge.PledgeID,
		mock.AnythingOfType("domain.PledgeAggregates"), suite.userID, mock.AnythingOfType("time.Time"),
	).Run(func(args mock.Arguments) {
		savedAgg = args.Get(3).(domain.PledgeAggregates)
	}).Return(nil).Once()

	_, err := suite.service.RecalculatePledge(ctx, pledge.PledgeID, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedAgg.TotalPaid.Equal(decimal.RequireFromString("90.00")))
	suite.mockConversion.AssertExpectations(suite.T())
}

func (suite *RecalculationServiceTestSuite) TestRecalculatePledge_BalanceFlooredAtZero() {
	ctx := context.Background()
	pledge := suite.lockedPledge("USD", "100")

	payment := suite.settledPayment("150", "USD", strPtr("150.00"), strPtr("150.00"))

	suite.mockPledgeRepo.On("FindPledgeByIDForUpdate", ctx, mock.Anything, pledge.PledgeID).Return(pledge, nil).Once()
	suite.mockPaymentRepo.On("FindSettledPaymentsByPledgeIDInTx", ctx, mock.Anything, pledge.PledgeID).
		Return([]domain.Payment{payment}, nil).Once()
	suite.mockPaymentRepo.On("FindSettledAllocationsByPledgeIDInTx", ctx, mock.Anything, pledge.PledgeID).
		Return([]domain.SettledAllocation{}, nil).Once()

	var savedAgg domain.PledgeAggregates
	suite.mockPledgeRepo.On("UpdatePledgeAggregatesInTx", ctx, mock.Anything, pledge.PledgeID,
		mock.AnythingOfType("domain.PledgeAggregates"), suite.userID, mock.AnythingOfType("time.Time"),
	).Run(func(args mock.Arguments) {
		savedAgg = args.Get(3).(domain.PledgeAggregates)
	}).Return(nil).Once()

	_, err := suite.service.RecalculatePledge(ctx, pledge.PledgeID, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedAgg.TotalPaid.Equal(decimal.RequireFromString("150.00")))
	suite.True(savedAgg.Balance.IsZero(), "overpaid pledge balance must floor at zero, was %s", savedAgg.Balance)
}

func (suite *RecalculationServiceTestSuite) TestRecalculatePledge_NotFound() {
	ctx := context.Background()
	pledgeID := uuid.NewString()

	suite.mockPledgeRepo.On("FindPledgeByIDForUpdate", ctx, mock.Anything, pledgeID).
		Return(nil, apperrors.NewNotFoundError("pledge not found")).Once()

	_, err := suite.service.RecalculatePledge(ctx, pledgeID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPledgeRepo.AssertNotCalled(suite.T(), "UpdatePledgeAggregatesInTx")
}

// --- RecalculatePaymentPlan ---

func (suite *RecalculationServiceTestSuite) TestRecalculatePaymentPlan_RecomputesFromPayments() {
	ctx := context.Background()
	plan := &domain.PaymentPlan{
		PaymentPlanID:      uuid.NewString(),
		PledgeID:           uuid.NewString(),
		CurrencyCode:       "EUR",
		TotalPlannedAmount: decimal.RequireFromString("1200"),
	}

	inPlanA := decimal.RequireFromString("100.00")
	inPlanB := decimal.RequireFromString("100.00")
	payments := []domain.Payment{
		{PaymentID: uuid.NewString(), Amount: decimal.RequireFromString("110"), CurrencyCode: "USD", AmountInPlanCurrency: &inPlanA, ReceivedDate: &suite.receivedDate, PaymentDate: suite.receivedDate},
		{PaymentID: uuid.NewString(), Amount: decimal.RequireFromString("108"), CurrencyCode: "USD", AmountInPlanCurrency: &inPlanB, ReceivedDate: &suite.receivedDate, PaymentDate: suite.receivedDate},
	}

	suite.mockPlanRepo.On("FindPaymentPlanByIDForUpdate", ctx, mock.Anything, plan.PaymentPlanID).Return(plan, nil).Once()
	suite.mockPaymentRepo.On("FindSettledPaymentsByPlanIDInTx", ctx, mock.Anything, plan.PaymentPlanID).
		Return(payments, nil).Once()
	// Plan USD figures are a live snapshot struck at today's rate and tagged
	// with the snapshot conversion type.
	suite.mockConversion.On("Convert", mock.Anything, mock.MatchedBy(func(cmd portssvc.ConvertCommand) bool {
		return cmd.FromCurrencyCode == "EUR" &&
			cmd.ToCurrencyCode == "USD" &&
			cmd.Amount.Equal(decimal.RequireFromString("200.00")) &&
			cmd.ConversionType == domain.ConversionPlanUSDSnapshot
	})).Return(&portssvc.ConversionResult{
		ConvertedAmount: decimal.RequireFromString("220.00"),
		Rate:            decimal.RequireFromString("1.1"),
	}, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, mock.MatchedBy(func(cmd portssvc.ConvertCommand) bool {
		return cmd.FromCurrencyCode == "EUR" &&
			cmd.ToCurrencyCode == "USD" &&
			cmd.Amount.Equal(decimal.RequireFromString("1000.00")) &&
			cmd.ConversionType == domain.ConversionPlanUSDSnapshot
	})).Return(&portssvc.ConversionResult{
		ConvertedAmount: decimal.RequireFromString("1100.00"),
		Rate:            decimal.RequireFromString("1.1"),
	}, nil).Once()

	var savedAgg domain.PaymentPlanAggregates
	suite.mockPlanRepo.On("UpdatePaymentPlanAggregatesInTx", ctx, mock.Anything, plan.PaymentPlanID,
		mock.AnythingOfType("domain.PaymentPlanAggregates"), suite.userID, mock.AnythingOfType("time.Time"),
	).Run(func(args mock.Arguments) {
		savedAgg = args.Get(3).(domain.PaymentPlanAggregates)
	}).Return(nil).Once()

	updated, err := suite.service.RecalculatePaymentPlan(ctx, plan.PaymentPlanID, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedAgg.TotalPaid.Equal(decimal.RequireFromString("200.00")))
	suite.Equal(2, savedAgg.InstallmentsPaid)
	suite.True(savedAgg.RemainingAmount.Equal(decimal.RequireFromString("1000.00")))
	suite.Require().NotNil(savedAgg.TotalPaidUsd)
	suite.True(savedAgg.TotalPaidUsd.Equal(decimal.RequireFromString("220.00")))
	suite.Require().NotNil(savedAgg.RemainingAmountUsd)
	suite.True(savedAgg.RemainingAmountUsd.Equal(decimal.RequireFromString("1100.00")))
	suite.Equal(2, updated.InstallmentsPaid)

	suite.mockPlanRepo.AssertExpectations(suite.T())
	suite.mockConversion.AssertExpectations(suite.T())
}

func (suite *RecalculationServiceTestSuite) TestRecalculatePaymentPlan_NoPayments() {
	ctx := context.Background()
	plan := &domain.PaymentPlan{
		PaymentPlanID:      uuid.NewString(),
		PledgeID:           uuid.NewString(),
		CurrencyCode:       "USD",
		TotalPlannedAmount: decimal.RequireFromString("1200"),
	}

	suite.mockPlanRepo.On("FindPaymentPlanByIDForUpdate", ctx, mock.Anything, plan.PaymentPlanID).Return(plan, nil).Once()
	suite.mockPaymentRepo.On("FindSettledPaymentsByPlanIDInTx", ctx, mock.Anything, plan.PaymentPlanID).
		Return([]domain.Payment{}, nil).Once()

	var savedAgg domain.PaymentPlanAggregates
	suite.mockPlanRepo.On("UpdatePaymentPlanAggregatesInTx", ctx, mock.Anything, plan.PaymentPlanID,
		mock.AnythingOfType("domain.PaymentPlanAggregates"), suite.userID, mock.AnythingOfType("time.Time"),
	).Run(func(args mock.Arguments) {
		savedAgg = args.Get(3).(domain.PaymentPlanAggregates)
	}).Return(nil).Once()

	_, err := suite.service.RecalculatePaymentPlan(ctx, plan.PaymentPlanID, suite.userID)

	suite.Require().NoError(err)
	suite.True(savedAgg.TotalPaid.IsZero())
	suite.Equal(0, savedAgg.InstallmentsPaid)
	suite.True(savedAgg.RemainingAmount.Equal(decimal.RequireFromString("1200")))
}

func TestRecalculationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecalculationServiceTestSuite))
}
