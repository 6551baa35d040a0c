package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RishiKendai/hermes/internal/api"
	"github.com/RishiKendai/hermes/internal/config"
	"github.com/RishiKendai/hermes/internal/configs/env"
	"github.com/RishiKendai/hermes/internal/dispatch"
	redisInfra "github.com/RishiKendai/hermes/internal/infra/redis"
	"github.com/RishiKendai/hermes/internal/logger"
	"github.com/RishiKendai/hermes/internal/metrics"
	"github.com/RishiKendai/hermes/internal/service"
	"github.com/RishiKendai/hermes/internal/upstream"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel)
	log.Info().Msg("Starting HERMES server")

	metrics.InitPrometheus()

	// Metrics server in a separate goroutine
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}
	go func() {
		log.Info().Str("port", cfg.MetricsPort).Msg("Metrics server started")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Metrics server failed to start")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	// Upstream collection API client
	upstreamClient := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTenantID, cfg.UpstreamToken)

	// Invite dispatch pipeline
	producer := dispatch.NewProducer(redisClient, cfg.InviteStreamKey)
	retryHandler := dispatch.NewRetryHandler(redisClient, producer, cfg.InviteDeadLetterKey, cfg.InviteMaxRetries)
	workerPool := dispatch.NewWorkerPool(ctx)

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := dispatch.NewConsumer(
		redisClient,
		cfg.InviteStreamKey,
		cfg.InviteConsumerGroup,
		consumerName,
		upstreamClient,
		service.CandidatesCol,
		workerPool,
		retryHandler,
		cfg.DispatchStatusTTL,
	)
	log.Info().Str("consumer_name", consumerName).Msg("Invite dispatch consumer initialized")

	// Services
	candidateSvc := service.NewCandidateService(upstreamClient, cfg.PageSize, producer, redisClient, cfg.DispatchStatusTTL)
	testSvc := service.NewTestService(upstreamClient, cfg.PageSize)
	questionSvc := service.NewQuestionService(upstreamClient, cfg.PageSize)
	assessmentSvc := service.NewAssessmentService(candidateSvc, redisClient, cfg.SnapshotTTL)
	dashboardSvc := service.NewDashboardService(candidateSvc, testSvc, assessmentSvc)

	handler := api.NewHandler(candidateSvc, testSvc, questionSvc, assessmentSvc, dashboardSvc)
	router := api.SetupRoutes(cfg, handler)

	// Start dispatch consumer in background
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Invite dispatch consumer error")
		}
	}()
	log.Info().Msg("Invite dispatch consumer started")

	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down Gin server")
	}

	// The consumer must stop submitting before the pool winds down.
	consumerCancel()
	<-consumerDone
	workerPool.Close()

	metricsCtx, metricsCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer metricsCancel()
	if err := metricsServer.Shutdown(metricsCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
}
