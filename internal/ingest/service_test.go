package ingest

import (
	"context"
	"testing"

	"github.com/inkforge/scribeguard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	stored []*models.Artifact
	err    error
}

func (s *fakeStore) UpsertArtifact(_ context.Context, artifact *models.Artifact) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, artifact)
	return nil
}

func TestProcessSubmissionStoresNormalizedArtifact(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, 3)

	err := svc.ProcessSubmission(context.Background(), &models.Submission{
		DocumentID: "doc-1",
		AuthorID:   "author-1",
		Title:      "Chapter One",
		Content:    "<p>The Weathered Captain Navigated Treacherous Waters Every Single Morning.</p>",
	})
	require.NoError(t, err)
	require.Len(t, store.stored, 1)

	artifact := store.stored[0]
	assert.Equal(t, "doc-1", artifact.DocumentID)
	assert.Equal(t, "author-1", artifact.AuthorID)
	assert.Equal(t, "the weathered captain navigated treacherous waters every single morning.", artifact.NormalizedText)
	require.Len(t, artifact.Candidates, 1)
	assert.Equal(t, "the weathered captain navigated treacherous waters every single morning.", artifact.Candidates[0].Text)
}

func TestProcessSubmissionShortContentYieldsNoCandidates(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, 3)

	err := svc.ProcessSubmission(context.Background(), &models.Submission{
		DocumentID: "doc-2",
		AuthorID:   "author-1",
		Content:    "too short.",
	})
	require.NoError(t, err)
	require.Len(t, store.stored, 1)
	assert.Empty(t, store.stored[0].Candidates)
}

func TestProcessSubmissionMissingDocumentID(t *testing.T) {
	svc := NewService(&fakeStore{}, 3)

	err := svc.ProcessSubmission(context.Background(), &models.Submission{
		AuthorID: "author-1",
		Content:  "some content",
	})
	assert.Error(t, err)
}
