package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/inkforge/scribeguard/internal/models"
	"github.com/inkforge/scribeguard/internal/repository"
	"github.com/rs/zerolog/log"
)

// CheckJob runs one web plagiarism check on the worker pool and persists
// the resulting report.
type CheckJob struct {
	Artifact     *models.Artifact
	ReportID     string
	Orchestrator *Orchestrator
	Reports      *repository.ReportsRepository
	Timeout      time.Duration
}

func (j *CheckJob) Execute(ctx context.Context) error {
	checkCtx := ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	report, checkErr := j.Orchestrator.Check(checkCtx, j.Artifact)
	if j.ReportID != "" {
		report.ID = j.ReportID
	}

	// A cancelled check still produced a partial report; persist it with
	// a context that outlives the cancellation.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := j.Reports.ReplaceReport(persistCtx, report); err != nil {
		log.Error().Err(err).
			Str("documentId", j.Artifact.DocumentID).
			Str("reportId", report.ID).
			Msg("Failed to persist report")
		return fmt.Errorf("failed to persist report: %w", err)
	}

	if checkErr != nil {
		return fmt.Errorf("check aborted for document %s: %w", j.Artifact.DocumentID, checkErr)
	}

	log.Info().
		Str("documentId", j.Artifact.DocumentID).
		Str("reportId", report.ID).
		Bool("matched", report.Matched).
		Float64("maxScore", report.MaxScore).
		Msg("Plagiarism check completed")
	return nil
}
