package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	portssvc "github.com/donorops/pledge_ledger_app/internal/core/ports/services"
	"github.com/donorops/pledge_ledger_app/internal/core/services"
	"github.com/donorops/pledge_ledger_app/internal/dto"
	"github.com/donorops/pledge_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conversionHandler handles ad-hoc currency conversion requests.
type conversionHandler struct {
	conversionService portssvc.ConversionSvcFacade
}

func newConversionHandler(cs portssvc.ConversionSvcFacade) *conversionHandler {
	return &conversionHandler{
		conversionService: cs,
	}
}

// registerConversionRoutes registers the standalone conversion route.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvcFacade) {
	h := newConversionHandler(conversionService)

	rg.POST("/conversions", h.convertCurrency)
}

func (h *conversionHandler) convertCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.Time("rate_date", req.Date),
	)
	logger.Info("Received request to convert currency")

	result, err := h.conversionService.Convert(c.Request.Context(), portssvc.ConvertCommand{
		Amount:           req.Amount,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		RateDate:         req.Date,
		ConversionType:   domain.ConversionAdhoc,
		RequestedBy:      middleware.GetActorFromCtx(c.Request.Context()),
	})
	if err != nil {
		var rateErr *services.RateNotFoundError
		if errors.As(err, &rateErr) {
			logger.Warn("No exchange rate in effect for conversion", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to convert currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert currency"})
		return
	}

	logger.Info("Currency converted successfully")
	c.JSON(http.StatusOK, dto.ConvertCurrencyResponse{
		Amount:           result.ConvertedAmount,
		Rate:             result.Rate,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		RateDate:         req.Date,
	})
}
