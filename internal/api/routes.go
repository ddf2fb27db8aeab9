package api

import (
	"github.com/inkforge/scribeguard/internal/config"
	"github.com/inkforge/scribeguard/internal/corpus"
	"github.com/inkforge/scribeguard/internal/ingest"
	"github.com/inkforge/scribeguard/internal/orchestrator"
	"github.com/inkforge/scribeguard/internal/repository"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	cfg *config.Config,
	documentsRepo *repository.DocumentsRepository,
	reportsRepo *repository.ReportsRepository,
	workerPool *orchestrator.WorkerPool,
	orch *orchestrator.Orchestrator,
	comparator *corpus.Comparator,
	status *orchestrator.RedisStatus,
	ingestSvc *ingest.Service,
) *gin.Engine {
	router := gin.Default()

	handler := NewHandler(cfg, documentsRepo, reportsRepo, workerPool, orch, comparator, status, ingestSvc)

	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/documents", handler.SubmitDocument)
		api.POST("/check", handler.Check)
		api.POST("/compare", handler.Compare)
		api.GET("/reports/:documentId", handler.GetReport)
		api.GET("/status/:documentId", handler.GetStatus)
	}

	return router
}
