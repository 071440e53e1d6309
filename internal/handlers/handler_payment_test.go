package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/internal/core/services"
	"github.com/donorops/pledge_ledger_app/internal/dto"
	"github.com/donorops/pledge_ledger_app/internal/handlers"
	"github.com/donorops/pledge_ledger_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, []domain.PaymentAllocation, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Payment), args.Get(1).([]domain.PaymentAllocation), args.Error(2)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock PaymentQueryService ---
type MockPaymentQueryService struct {
	mock.Mock
}

func (m *MockPaymentQueryService) GetPaymentByID(ctx context.Context, paymentID string) (*portssvc.PaymentDetails, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.PaymentDetails), args.Error(1)
}

var _ portssvc.PaymentQuerySvcFacade = (*MockPaymentQueryService)(nil)

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockPaymentSvc   *MockPaymentService
	mockQuerySvc     *MockPaymentQueryService
	validPledgeBody  []byte
	validPaymentDate time.Time
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockPaymentSvc = new(MockPaymentService)
	suite.mockQuerySvc = new(MockPaymentQueryService)

	svcContainer := &portssvc.ServiceContainer{
		Payment:      suite.mockPaymentSvc,
		PaymentQuery: suite.mockQuerySvc,
	}
	handlers.RegisterRoutes(suite.router, &config.Config{}, svcContainer)

	suite.validPaymentDate = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	pledgeID := uuid.NewString()
	suite.validPledgeBody, _ = json.Marshal(dto.CreatePaymentRequest{
		Amount:        decimal.RequireFromString("100"),
		CurrencyCode:  "EUR",
		PaymentDate:   suite.validPaymentDate,
		PaymentStatus: domain.PaymentCompleted,
		PledgeID:      &pledgeID,
	})
}

func (suite *PaymentHandlerTestSuite) postPayment(body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *PaymentHandlerTestSuite) TestCreatePayment_Success() {
	payment := &domain.Payment{
		PaymentID:     uuid.NewString(),
		Amount:        decimal.RequireFromString("100.00"),
		CurrencyCode:  "EUR",
		AmountUsd:     decimal.RequireFromString("110.00"),
		PaymentDate:   suite.validPaymentDate,
		PaymentStatus: domain.PaymentCompleted,
	}

	suite.mockPaymentSvc.On("CreatePayment", mock.Anything, mock.Anything, mock.Anything).
		Return(payment, []domain.PaymentAllocation(nil), nil).Once()

	w := suite.postPayment(suite.validPledgeBody)

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(payment.PaymentID, responseBody.PaymentID)

	suite.mockPaymentSvc.AssertExpectations(suite.T())
}

// Shape violations are business-rule rejections of the request and must come
// back as 400s, never as server errors.
func (suite *PaymentHandlerTestSuite) TestCreatePayment_ShapeViolationsAreBadRequests() {
	shapeErrors := []error{
		services.ErrPaymentShapeRequired,
		services.ErrAmbiguousPaymentShape,
		services.ErrThirdPartyRequired,
		services.ErrAllocationsRequired,
	}

	for _, shapeErr := range shapeErrors {
		suite.Run(shapeErr.Error(), func() {
			suite.SetupTest()
			suite.mockPaymentSvc.On("CreatePayment", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, nil, shapeErr).Once()

			w := suite.postPayment(suite.validPledgeBody)

			suite.Equal(http.StatusBadRequest, w.Code)

			var responseBody map[string]any
			suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
			suite.Contains(responseBody, "error")
		})
	}
}

func (suite *PaymentHandlerTestSuite) TestCreatePayment_AllocationMismatchDetails() {
	suite.mockPaymentSvc.On("CreatePayment", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, &services.AllocationMismatchError{
			PaymentAmount:  decimal.RequireFromString("100"),
			AllocatedTotal: decimal.RequireFromString("110"),
			Difference:     decimal.RequireFromString("10"),
		}).Once()

	w := suite.postPayment(suite.validPledgeBody)

	suite.Equal(http.StatusBadRequest, w.Code)

	var responseBody map[string]any
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Contains(responseBody, "paymentAmount")
	suite.Contains(responseBody, "allocatedTotal")
	suite.Contains(responseBody, "difference")
}

func (suite *PaymentHandlerTestSuite) TestCreatePayment_MissingPledgesListed() {
	missingID := uuid.NewString()
	suite.mockPaymentSvc.On("CreatePayment", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, &services.PledgeNotFoundError{MissingIDs: []string{missingID}}).Once()

	w := suite.postPayment(suite.validPledgeBody)

	suite.Equal(http.StatusBadRequest, w.Code)

	var responseBody struct {
		MissingPledgeIDs []string `json:"missingPledgeIDs"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal([]string{missingID}, responseBody.MissingPledgeIDs)
}

func (suite *PaymentHandlerTestSuite) TestCreatePayment_UnknownInstallmentIsNotFound() {
	suite.mockPaymentSvc.On("CreatePayment", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.NewNotFoundError("installment schedule not found")).Once()

	w := suite.postPayment(suite.validPledgeBody)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestGetPayment_NotFound() {
	paymentID := uuid.NewString()
	suite.mockQuerySvc.On("GetPaymentByID", mock.Anything, paymentID).
		Return(nil, apperrors.NewNotFoundError("payment not found")).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/payments/"+paymentID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
