package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkforge/scribeguard/internal/config"
	"github.com/inkforge/scribeguard/internal/corpus"
	"github.com/inkforge/scribeguard/internal/ingest"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/inkforge/scribeguard/internal/orchestrator"
	"github.com/inkforge/scribeguard/internal/repository"
	"github.com/rs/zerolog/log"
)

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	cfg           *config.Config
	documentsRepo *repository.DocumentsRepository
	reportsRepo   *repository.ReportsRepository
	workerPool    *orchestrator.WorkerPool
	orch          *orchestrator.Orchestrator
	comparator    *corpus.Comparator
	status        *orchestrator.RedisStatus
	ingestSvc     *ingest.Service
	checkSem      chan struct{} // bounds concurrently queued checks
	checkTimeout  time.Duration
}

func NewHandler(
	cfg *config.Config,
	documentsRepo *repository.DocumentsRepository,
	reportsRepo *repository.ReportsRepository,
	workerPool *orchestrator.WorkerPool,
	orch *orchestrator.Orchestrator,
	comparator *corpus.Comparator,
	status *orchestrator.RedisStatus,
	ingestSvc *ingest.Service,
) *Handler {
	return &Handler{
		cfg:           cfg,
		documentsRepo: documentsRepo,
		reportsRepo:   reportsRepo,
		workerPool:    workerPool,
		orch:          orch,
		comparator:    comparator,
		status:        status,
		ingestSvc:     ingestSvc,
		checkSem:      make(chan struct{}, cfg.MaxConcurrentChecks),
		checkTimeout:  cfg.CheckTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// SubmitDocument ingests a document synchronously: normalize, extract
// candidate sentences, store the artifact. The Redis stream consumer serves
// the same purpose for platform-originated submissions.
func (h *Handler) SubmitDocument(c *gin.Context) {
	var submission models.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if submission.AuthorID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "authorId is required",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if submission.DocumentID == "" {
		submission.DocumentID = uuid.NewString()
	}

	if err := h.ingestSvc.ProcessSubmission(c.Request.Context(), &submission); err != nil {
		log.Error().Err(err).Str("documentId", submission.DocumentID).Msg("Failed to ingest document")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to store document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"documentId": submission.DocumentID,
	})
}

// Check starts a web plagiarism check. The pipeline can take tens of
// seconds against third parties, so the request returns 202 immediately and
// the check runs on the worker pool; progress is exposed via GetStatus.
func (h *Handler) Check(c *gin.Context) {
	var req models.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()
	artifact, err := h.documentsRepo.GetByDocumentID(ctx, req.DocumentID)
	if err != nil {
		log.Error().Err(err).Str("documentId", req.DocumentID).Msg("Failed to load artifact")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if artifact == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "No document found for documentId",
			Code:  "DOCUMENT_NOT_FOUND",
		})
		return
	}

	select {
	case h.checkSem <- struct{}{}:
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, models.ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	reportID := uuid.NewString()
	pending := &models.Report{
		ID:         reportID,
		DocumentID: artifact.DocumentID,
		Kind:       models.ReportKindWeb,
		Status:     "pending",
		Matches:    []models.SimilarityMatch{},
	}
	if err := h.reportsRepo.InsertReport(ctx, pending); err != nil {
		<-h.checkSem
		log.Error().Err(err).Str("documentId", artifact.DocumentID).Msg("Failed to create pending report")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to create report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.status.Update(ctx, artifact.DocumentID, models.StepInitiated)

	job := &checkJobWithRelease{
		inner: &orchestrator.CheckJob{
			Artifact:     artifact,
			ReportID:     reportID,
			Orchestrator: h.orch,
			Reports:      h.reportsRepo,
			Timeout:      h.checkTimeout,
		},
		release: func() { <-h.checkSem },
	}
	if err := h.workerPool.Submit(job); err != nil {
		<-h.checkSem
		log.Error().Err(err).Str("documentId", artifact.DocumentID).Msg("Failed to enqueue check")
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: "Service shutting down",
			Code:  "UNAVAILABLE",
		})
		return
	}

	c.JSON(http.StatusAccepted, models.CheckResponse{
		Step:       models.StepInitiated,
		DocumentID: artifact.DocumentID,
		ReportID:   reportID,
	})
}

// checkJobWithRelease frees the handler's concurrency slot once the check
// finishes, regardless of outcome.
type checkJobWithRelease struct {
	inner   orchestrator.Job
	release func()
}

func (j *checkJobWithRelease) Execute(ctx context.Context) error {
	defer j.release()
	return j.inner.Execute(ctx)
}

// Compare runs a synchronous comparison of a document against the author's
// other documents. No network is involved, so latency stays bounded.
func (h *Handler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()
	artifact, err := h.documentsRepo.GetByDocumentID(ctx, req.DocumentID)
	if err != nil {
		log.Error().Err(err).Str("documentId", req.DocumentID).Msg("Failed to load artifact")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if artifact == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "No document found for documentId",
			Code:  "DOCUMENT_NOT_FOUND",
		})
		return
	}

	siblings, err := h.documentsRepo.GetByAuthorID(ctx, artifact.AuthorID)
	if err != nil {
		log.Error().Err(err).Str("authorId", artifact.AuthorID).Msg("Failed to load author corpus")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load author documents",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	subject := models.Document{
		ID:       artifact.DocumentID,
		AuthorID: artifact.AuthorID,
		Title:    artifact.Title,
		Content:  artifact.Content,
	}
	references := make([]models.Document, 0, len(siblings))
	for _, sibling := range siblings {
		references = append(references, models.Document{
			ID:       sibling.DocumentID,
			AuthorID: sibling.AuthorID,
			Title:    sibling.Title,
			Content:  sibling.Content,
		})
	}

	report := h.comparator.Compare(ctx, subject, references)

	if err := h.reportsRepo.InsertReport(ctx, report); err != nil {
		log.Warn().Err(err).Str("documentId", req.DocumentID).Msg("Failed to persist comparison report")
	}

	c.JSON(http.StatusOK, report)
}

// GetReport returns the most recent report for a document.
func (h *Handler) GetReport(c *gin.Context) {
	documentID := c.Param("documentId")

	report, err := h.reportsRepo.GetLatestReportByDocumentID(c.Request.Context(), documentID)
	if err != nil {
		log.Error().Err(err).Str("documentId", documentID).Msg("Failed to load report")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "No report found for documentId",
			Code:  "REPORT_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetStatus answers progress polls from the last step published to Redis.
func (h *Handler) GetStatus(c *gin.Context) {
	documentID := c.Param("documentId")
	step := h.status.GetStatus(c.Request.Context(), documentID)

	c.JSON(http.StatusOK, gin.H{
		"documentId": documentID,
		"step":       step,
	})
}
