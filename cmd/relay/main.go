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
	inventorysvc "github.com/stitchedpdx/square-inventory/internal/service/inventory"
	"github.com/stitchedpdx/square-inventory/pkg/clients/square"
	"github.com/stitchedpdx/square-inventory/pkg/logger"
)

func main() {
	cfg, err := config.LoadRelay("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New("inventory-relay"))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	squareClient := square.NewClient(cfg.Square, cfg.HTTPClient.Timeout)
	baseLogger.Info("square client configured",
		zap.String("base_url", cfg.Square.ResolvedBaseURL()),
		zap.Bool("production", cfg.Square.UseProd),
		zap.String("location", cfg.Square.LocationName),
		zap.String("item", cfg.Square.ItemName))

	m := metrics.New("inventory-relay", nil, nil)
	relaySvc := inventorysvc.NewService(squareClient, cfg.Square.LocationName, cfg.Square.ItemName, logger.Named(baseLogger, "svc.inventory"))
	inventoryHandler := handlers.NewInventoryHandler(relaySvc, m, logger.Named(baseLogger, "handlers.inventory"))
	engine := router.NewRelay(inventoryHandler, m, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * cfg.HTTPClient.Timeout,
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
