package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/internal/core/services"
	"github.com/donorops/pledge_ledger_app/internal/dto"
	"github.com/donorops/pledge_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
	queryService   portssvc.PaymentQuerySvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade, qs portssvc.PaymentQuerySvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
		queryService:   qs,
	}
}

// registerPaymentRoutes registers routes related to payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade, queryService portssvc.PaymentQuerySvcFacade) {
	h := newPaymentHandler(paymentService, queryService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("/:paymentID", h.getPaymentByID)
	}
}

func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := middleware.GetActorFromCtx(c.Request.Context())
	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create payment",
		slog.Any("amount", req.Amount),
		slog.String("currency_code", req.CurrencyCode),
		slog.String("payment_status", string(req.PaymentStatus)),
		slog.Int("allocation_count", len(req.Allocations)),
	)

	payment, allocations, err := h.paymentService.CreatePayment(c.Request.Context(), req, creatorUserID)
	if err != nil {
		h.respondCreatePaymentError(c, logger, err)
		return
	}

	logger.Info("Payment created successfully", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment, allocations, nil))
}

// respondCreatePaymentError maps domain failures onto HTTP statuses. Shape,
// allocation, tag, and rate problems are client errors; a missing plan or
// installment is a 404.
func (h *paymentHandler) respondCreatePaymentError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		pledgeErr   *services.PledgeNotFoundError
		mismatchErr *services.AllocationMismatchError
		tagsErr     *services.InvalidTagsError
		rateErr     *services.RateNotFoundError
	)
	switch {
	case errors.As(err, &pledgeErr):
		logger.Warn("Payment references unknown pledges", slog.Any("missing_pledge_ids", pledgeErr.MissingIDs))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "missingPledgeIDs": pledgeErr.MissingIDs})
	case errors.As(err, &mismatchErr):
		logger.Warn("Allocation total does not match payment amount",
			slog.Any("payment_amount", mismatchErr.PaymentAmount),
			slog.Any("allocated_total", mismatchErr.AllocatedTotal),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          err.Error(),
			"paymentAmount":  mismatchErr.PaymentAmount,
			"allocatedTotal": mismatchErr.AllocatedTotal,
			"difference":     mismatchErr.Difference,
		})
	case errors.As(err, &tagsErr):
		logger.Warn("Payment references invalid tags", slog.Any("tag_ids", tagsErr.TagIDs))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "invalidTagIDs": tagsErr.TagIDs})
	case errors.As(err, &rateErr):
		logger.Warn("No exchange rate in effect for payment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Referenced entity not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error creating payment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to create payment in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
	}
}

func (h *paymentHandler) getPaymentByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	logger = logger.With(slog.String("payment_id", paymentID))
	logger.Info("Received request to get payment")

	details, err := h.queryService.GetPaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Payment not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		} else {
			logger.Error("Failed to get payment from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment"})
		}
		return
	}

	logger.Info("Payment retrieved successfully")
	c.JSON(http.StatusOK, dto.ToPaymentResponse(&details.Payment, details.Allocations, details.Tags))
}
