package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
	"github.com/Raphi52/OnlyVIP-sub000/internal/http/dto"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

// SaleAttributor is implemented by brain.Attributor.
type SaleAttributor interface {
	AttributeSale(ctx context.Context, sale model.Sale) (*model.ScriptUsage, error)
}

type SalesHandler struct {
	attributor SaleAttributor
	now        func() time.Time
}

func NewSalesHandler(attributor SaleAttributor) *SalesHandler {
	return &SalesHandler{attributor: attributor, now: time.Now}
}

// Record credits a purchase to the script that preceded it, if any.
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(c.Request.Context(), "invalid sale request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
		ConversationID: &req.ConversationID,
		Component:      "ai.http.sales",
	})

	occurredAt := h.now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	usage, err := h.attributor.AttributeSale(ctx, model.Sale{
		ConversationID: req.ConversationID,
		Amount:         req.Amount,
		OccurredAt:     occurredAt,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to attribute sale", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attribute sale"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRecordSaleResponse(usage))
}
