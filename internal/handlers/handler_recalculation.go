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

// recalculationHandler exposes the aggregate recalculation operations for
// backfill and repair.
type recalculationHandler struct {
	recalculationService portssvc.RecalculationSvcFacade
}

func newRecalculationHandler(rs portssvc.RecalculationSvcFacade) *recalculationHandler {
	return &recalculationHandler{
		recalculationService: rs,
	}
}

// registerRecalculationRoutes registers the recalculation routes.
func registerRecalculationRoutes(rg *gin.RouterGroup, recalculationService portssvc.RecalculationSvcFacade) {
	h := newRecalculationHandler(recalculationService)

	rg.POST("/pledges/:pledgeID/recalculate", h.recalculatePledge)
	rg.POST("/payment-plans/:planID/recalculate", h.recalculatePaymentPlan)
}

func (h *recalculationHandler) recalculatePledge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pledgeID := c.Param("pledgeID")
	requestedBy := middleware.GetActorFromCtx(c.Request.Context())

	logger = logger.With(slog.String("pledge_id", pledgeID), slog.String("requested_by", requestedBy))
	logger.Info("Received request to recalculate pledge")

	pledge, err := h.recalculationService.RecalculatePledge(c.Request.Context(), pledgeID, requestedBy)
	if err != nil {
		h.respondRecalculationError(c, logger, err, "pledge")
		return
	}

	logger.Info("Pledge recalculated successfully")
	c.JSON(http.StatusOK, dto.ToPledgeResponse(pledge))
}

func (h *recalculationHandler) recalculatePaymentPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("planID")
	requestedBy := middleware.GetActorFromCtx(c.Request.Context())

	logger = logger.With(slog.String("payment_plan_id", planID), slog.String("requested_by", requestedBy))
	logger.Info("Received request to recalculate payment plan")

	plan, err := h.recalculationService.RecalculatePaymentPlan(c.Request.Context(), planID, requestedBy)
	if err != nil {
		h.respondRecalculationError(c, logger, err, "payment plan")
		return
	}

	logger.Info("Payment plan recalculated successfully")
	c.JSON(http.StatusOK, dto.ToPaymentPlanResponse(plan))
}

func (h *recalculationHandler) respondRecalculationError(c *gin.Context, logger *slog.Logger, err error, entity string) {
	var rateErr *services.RateNotFoundError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Entity not found for recalculation", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.As(err, &rateErr):
		logger.Warn("No exchange rate in effect during recalculation", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to recalculate "+entity, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate " + entity})
	}
}
