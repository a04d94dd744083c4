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

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	natsAdapter "github.com/inmuebla/listing-service/internal/adapter/messaging/nats"
	mongoRepo "github.com/inmuebla/listing-service/internal/adapter/repository/mongodb"
	"github.com/inmuebla/listing-service/internal/adapter/storage/s3"
	"github.com/inmuebla/listing-service/internal/config"
	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/listing/pricing"
	"github.com/inmuebla/listing-service/internal/listing/query"
	"github.com/inmuebla/listing-service/internal/listing/service"
	"github.com/inmuebla/listing-service/internal/listing/usecase"
	"github.com/inmuebla/listing-service/internal/mailer"
	"github.com/inmuebla/listing-service/internal/platform/logger"
	"github.com/inmuebla/listing-service/internal/platform/metrics"
	"github.com/inmuebla/listing-service/internal/platform/tracer"
)

const serviceName = "listing-service"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	tp := tracer.InitTracer(serviceName, cfg.OTLPEndpoint, appLogger)
	defer func() {
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := tp.Shutdown(ctxShutdown); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(ctxPing, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()

	mediaStorage, err := s3.NewMediaStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	listingRepo := mongoRepo.NewListingRepository(db, appLogger)
	paymentRepo := mongoRepo.NewPaymentRepository(db, appLogger)
	userRepo := mongoRepo.NewUserRepository(db, appLogger)
	listingSource := mongoRepo.NewListingSource(db, time.Now, appLogger)

	metricsManager := metrics.NewManager(serviceName)

	pricingCfg := pricing.Default()
	workflows := usecase.NewWorkflows(pricingCfg, time.Now, appLogger)

	activeCache := query.NewActiveListingsCache(listingSource, time.Now, appLogger, metricsManager)

	notifier := mailer.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	listingSvc := service.NewListingService(
		workflows,
		listingRepo,
		paymentRepo,
		userRepo,
		natsPublisher,
		notifier,
		mediaStorage,
		metricsManager,
		appLogger,
	)
	appLogger.Info("ListingService initialized.")

	consumer, err := natsAdapter.NewPaymentOutcomeConsumer(cfg.NATSURL, listingSvc, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize payment outcome consumer", zap.Error(err))
	}
	defer consumer.Close()
	if err := consumer.Start(context.Background()); err != nil {
		appLogger.Fatal("Failed to start payment outcome consumer", zap.Error(err))
	}

	// Warm both cache partitions so the first reads after boot are served
	// from memory.
	go func() {
		ctxWarm, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelWarm()
		for _, op := range []domain.OperationType{domain.OperationSale, domain.OperationRental} {
			if _, err := activeCache.FetchActive(ctxWarm, op); err != nil {
				appLogger.Warn("cache warm-up fetch failed", zap.String("operation_type", string(op)), zap.Error(err))
			}
		}
	}()

	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	appLogger.Info("Application shutting down...")
}
