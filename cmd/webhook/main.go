package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/stitchedpdx/square-inventory/internal/config"
	"github.com/stitchedpdx/square-inventory/internal/server/handlers"
	"github.com/stitchedpdx/square-inventory/internal/server/metrics"
	"github.com/stitchedpdx/square-inventory/internal/server/router"
	webhooksvc "github.com/stitchedpdx/square-inventory/internal/service/webhook"
	"github.com/stitchedpdx/square-inventory/pkg/clients/supabase"
	"github.com/stitchedpdx/square-inventory/pkg/logger"
)

func main() {
	cfg, err := config.LoadWebhook("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New("square-webhook"))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store := supabase.NewClient(cfg.Store, cfg.HTTPClient.Timeout)
	baseLogger.Info("table store configured", zap.String("url", cfg.Store.URL), zap.String("table", cfg.Store.Table))

	m := metrics.New("square-webhook", nil, nil)
	receiver := webhooksvc.NewService(cfg.Webhook.SignatureKey, store, logger.Named(baseLogger, "svc.webhook"))
	webhookHandler := handlers.NewWebhookHandler(receiver, m, logger.Named(baseLogger, "handlers.webhook"))
	engine := router.NewWebhook(webhookHandler, m, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.HTTPClient.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
