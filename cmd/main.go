package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/inkforge/scribeguard/internal/api"
	"github.com/inkforge/scribeguard/internal/config"
	"github.com/inkforge/scribeguard/internal/configs/env"
	"github.com/inkforge/scribeguard/internal/corpus"
	"github.com/inkforge/scribeguard/internal/infra/mongo"
	redisInfra "github.com/inkforge/scribeguard/internal/infra/redis"
	"github.com/inkforge/scribeguard/internal/ingest"
	"github.com/inkforge/scribeguard/internal/logger"
	"github.com/inkforge/scribeguard/internal/metrics"
	"github.com/inkforge/scribeguard/internal/orchestrator"
	"github.com/inkforge/scribeguard/internal/repository"
	"github.com/inkforge/scribeguard/internal/similarity"
	"github.com/inkforge/scribeguard/internal/stream"
	"github.com/inkforge/scribeguard/internal/webfetch"
	"github.com/inkforge/scribeguard/internal/websearch"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
	log.Info().Msg("Starting ScribeGuard server")

	metrics.InitPrometheus()
	log.Info().Msg("Prometheus metrics initialized")

	// Metrics server on its own port, separate from the API surface.
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    ":2112",
		Handler: metricsMux,
	}
	go func() {
		log.Info().Str("port", "2112").Msg("Metrics server started")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Metrics server failed to start")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(ctx)

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	// Repositories
	mongoRepo := repository.NewMongoRepository(mongoClient)
	documentsRepo := repository.NewDocumentsRepository(mongoRepo)
	reportsRepo := repository.NewReportsRepository(mongoRepo)

	// Similarity engine. When the embedding backend is down the engine runs
	// on the remaining methods for the whole process lifetime.
	var embedder similarity.Embedder
	if cfg.EmbeddingURL != "" {
		embedder = similarity.NewOllamaEmbedder(cfg.EmbeddingURL, cfg.EmbeddingModel)
	}
	engine := similarity.NewEngine(similarity.Options{
		NgramSize: cfg.NgramSize,
		Embedder:  embedder,
	})

	comparator := corpus.NewComparator(engine, cfg.MatchThreshold, cfg.MinTextLength)

	// Web check pipeline
	provider := websearch.Select(cfg)
	fetcher := webfetch.NewFetcher(cfg.RequestTimeout)
	status := orchestrator.NewRedisStatus(redisClient)
	orch := orchestrator.New(provider, fetcher, engine, status, orchestrator.Options{
		MatchThreshold:  cfg.MatchThreshold,
		MaxCandidates:   cfg.MaxCandidates,
		MaxHitsPerQuery: cfg.MaxHitsPerQuery,
		MinTextLength:   cfg.MinTextLength,
	})

	// Ingest service and Redis stream consumer
	ingestSvc := ingest.NewService(documentsRepo, cfg.MaxCandidates)
	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey, cfg.RetryCount)

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(
		redisClient.Client,
		cfg.RedisStreamKey,
		cfg.RedisConsumerGroup,
		consumerName,
		ingestSvc,
		retryHandler,
		cfg.StreamRetentionDuration,
	)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	// Worker pool for background checks
	workerPool := orchestrator.NewWorkerPool(ctx)
	defer workerPool.Close()

	router := api.SetupRoutes(cfg, documentsRepo, reportsRepo, workerPool, orch, comparator, status, ingestSvc)

	// Start Redis consumer in background
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()
	log.Info().Msg("Redis consumer started")

	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
	}

	metricsCtx, metricsCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer metricsCancel()
	if err := metricsServer.Shutdown(metricsCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
}
