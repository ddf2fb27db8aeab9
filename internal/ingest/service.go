// Package ingest turns raw document submissions into stored artifacts:
// normalized text plus the candidate sentences used by later checks.
package ingest

import (
	"context"
	"fmt"

	"github.com/inkforge/scribeguard/internal/extract"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/inkforge/scribeguard/internal/textnorm"
	"github.com/rs/zerolog/log"
)

// ArtifactStore is the slice of the documents repository ingest writes to.
type ArtifactStore interface {
	UpsertArtifact(ctx context.Context, artifact *models.Artifact) error
}

type Service struct {
	store         ArtifactStore
	maxCandidates int
}

func NewService(store ArtifactStore, maxCandidates int) *Service {
	if maxCandidates <= 0 {
		maxCandidates = extract.DefaultMaxCandidates
	}
	return &Service{
		store:         store,
		maxCandidates: maxCandidates,
	}
}

// ProcessSubmission normalizes the submitted content, extracts candidate
// sentences and stores the artifact. Reprocessing the same documentId
// overwrites the previous artifact.
func (s *Service) ProcessSubmission(ctx context.Context, submission *models.Submission) error {
	if submission.DocumentID == "" {
		return fmt.Errorf("submission missing documentId")
	}

	normalized := textnorm.Normalize(submission.Content)
	candidates := extract.Candidates(normalized, s.maxCandidates)

	artifact := &models.Artifact{
		DocumentID:     submission.DocumentID,
		AuthorID:       submission.AuthorID,
		Title:          submission.Title,
		Content:        submission.Content,
		NormalizedText: normalized,
		Candidates:     candidates,
	}

	if err := s.store.UpsertArtifact(ctx, artifact); err != nil {
		return fmt.Errorf("failed to store artifact: %w", err)
	}

	log.Debug().
		Str("documentId", submission.DocumentID).
		Int("normalizedLength", len(normalized)).
		Int("candidates", len(candidates)).
		Msg("Document artifact stored")

	return nil
}
