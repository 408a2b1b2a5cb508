package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stitchedpdx/square-inventory/internal/server/handlers"
	"github.com/stitchedpdx/square-inventory/internal/server/metrics"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// NewRelay wires the Gin engine of the inventory-set relay.
func NewRelay(handler *handlers.InventoryHandler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	r := newEngine(m, logger)
	r.POST("/inventory/add", handler.Add)

	if logger != nil {
		logger.Info("relay router initialized")
	}
	return r
}

// NewWebhook wires the Gin engine of the webhook receiver.
func NewWebhook(handler *handlers.WebhookHandler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	r := newEngine(m, logger)
	r.POST("/square/webhook", handler.Receive)

	if logger != nil {
		logger.Info("webhook router initialized")
	}
	return r
}

func newEngine(m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger, m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), elapsed)

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", elapsed),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)))
	}
}
