package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/docs"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/app"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/config"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/handler"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/jobs"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/logger"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/queue"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/queue/sqs"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/reconcile"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/service"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/worker"
)

// @title Tip Reconciliation Service API
// @version 1.0
// @description Receives payment webhooks and reconciles tip payouts and analytics
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort),
		zap.String("queue_driver", cfg.Queue.Driver))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	// Initialize stores and the reconciliation pipeline
	components, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer components.Close()

	registry := worker.NewRegistry(log)

	// Initialize payment dispatcher
	var dispatcher service.PaymentDispatcher
	switch cfg.Queue.Driver {
	case config.QueueSQS:
		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Fatal("Failed to create SQS client", zap.Error(err))
		}
		dispatcher = queue.NewDispatcher(sqsClient)
	default:
		dispatcher = reconcile.NewAsyncDispatcher(registry, components.Pipeline, log)
	}

	verifier, err := webhook.NewVerifier(cfg.Webhook.Secret, time.Duration(cfg.Webhook.ToleranceSec)*time.Second, log)
	if err != nil {
		log.Fatal("Failed to create webhook verifier", zap.Error(err))
	}

	// Initialize services
	webhookService := service.NewWebhookService(verifier, dispatcher, log)
	tipService := service.NewTipService(
		components.Ledger,
		components.Analytics,
		components.Configs,
		components.Platform,
		components.Splitter,
		log,
	)

	// Initialize handler
	h := handler.NewHandler(tipService, webhookService, components.HealthChecks, cfg.Service.CORSAllowedOrigins, log)

	// Schedule analytics rebuilds
	scheduler, err := jobs.NewScheduler(components.Analytics, cfg.Jobs.AnalyticsRebuildCron, cfg.Jobs.Timezone, log)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down API service gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Service.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down API server", zap.Error(err))
	}
	scheduler.Stop()

	if err := registry.Shutdown(shutdownCtx); err != nil {
		log.Error("Background reconciliations did not finish before timeout",
			zap.Error(err),
			zap.Int64("in_flight", registry.InFlight()))
	}
}
