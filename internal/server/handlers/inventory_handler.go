package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stitchedpdx/square-inventory/internal/domain/models"
	"github.com/stitchedpdx/square-inventory/internal/server/metrics"
	service "github.com/stitchedpdx/square-inventory/internal/service/inventory"
)

// InventoryHandler exposes the inventory-set relay over HTTP.
type InventoryHandler struct {
	svc     service.Relay
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc service.Relay, m *metrics.Metrics, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, metrics: m, logger: logger}
}

// Add sets the stock count of one size. Every failure, lookup miss or
// upstream rejection alike, is a 400 carrying the error message.
func (h *InventoryHandler) Add(c *gin.Context) {
	var req models.InventoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid inventory payload", zap.Error(err))
		h.metrics.RelayUpdate(metrics.OutcomeRejected)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.svc.SetInventory(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("inventory update failed", zap.String("size", req.Size), zap.Error(err))
		if errors.Is(err, service.ErrNotFound) {
			h.metrics.RelayUpdate(metrics.OutcomeNotFound)
		} else {
			h.metrics.RelayUpdate(metrics.OutcomeFailure)
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	h.metrics.RelayUpdate(metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, gin.H{"ok": true, "square_result": result})
}
