package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stitchedpdx/square-inventory/internal/domain/models"
	"github.com/stitchedpdx/square-inventory/internal/server/metrics"
	service "github.com/stitchedpdx/square-inventory/internal/service/webhook"
)

// MaxWebhookBodyBytes caps the body read before signature verification.
const MaxWebhookBodyBytes = 1 << 20

// WebhookHandler handles inbound Square webhook deliveries.
type WebhookHandler struct {
	svc     service.Receiver
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewWebhookHandler constructs the HTTP handler adapter.
func NewWebhookHandler(svc service.Receiver, m *metrics.Metrics, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, metrics: m, logger: logger}
}

// Receive verifies the signature over the raw body, then decodes those same
// bytes and dispatches the event.
func (h *WebhookHandler) Receive(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("failed reading webhook body", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unable to read body"})
		return
	}

	if err := h.verify(c, raw); err != nil {
		h.logger.Warn("webhook signature rejected", zap.Error(err), zap.String("client_ip", c.ClientIP()))
		h.metrics.WebhookEvent("", metrics.OutcomeRejected)

		status := http.StatusUnauthorized
		if errors.Is(err, service.ErrMissingSignature) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"detail": err.Error()})
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		h.metrics.WebhookEvent("", metrics.OutcomeRejected)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid payload"})
		return
	}

	handled, err := h.svc.HandleEvent(c.Request.Context(), event)
	if err != nil {
		h.logger.Error("failed processing webhook", zap.String("event_type", event.EventType), zap.Error(err))
		h.metrics.WebhookEvent(event.EventType, metrics.OutcomeFailure)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	if handled {
		h.metrics.WebhookEvent(event.EventType, metrics.OutcomeSuccess)
	} else {
		h.metrics.WebhookEvent(event.EventType, metrics.OutcomeIgnored)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// verify distinguishes an absent signature header from one that is present
// but empty; only the former is ErrMissingSignature.
func (h *WebhookHandler) verify(c *gin.Context, raw []byte) error {
	values := c.Request.Header.Values(service.SignatureHeader)
	if len(values) == 0 {
		return service.ErrMissingSignature
	}
	return h.svc.VerifySignature(raw, values[0])
}
