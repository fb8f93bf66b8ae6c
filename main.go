package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront-api/config"
	"storefront-api/internal/app"
	"storefront-api/internal/logger"
	"storefront-api/internal/server"
	"storefront-api/internal/tracing"

	_ "storefront-api/docs" // Import generated docs

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title           Storefront API
// @version         1.0
// @description     Merchants, their items and their coupons.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Application stopped with error", zap.Error(err))
		_ = appLogger.Sync()
		os.Exit(1)
	}
	appLogger.Info("Application gracefully stopped.")
}

func run(cfg *config.Config, appLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracerProvider(cfg.Tracing.Enabled, cfg.Tracing.ServiceName,
		cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio, appLogger)
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer application.Close()

	srv, err := server.NewServer(application)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return errors.Join(srv.Shutdown(shutdownCtx), shutdownTracing(shutdownCtx))
	})

	return g.Wait()
}
