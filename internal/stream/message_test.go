package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmission(t *testing.T) {
	msg := &StreamMessage{
		ID: "1700000000000-0",
		Fields: map[string]string{
			"documentId": "doc-42",
			"authorId":   "author-7",
			"title":      "Chapter One",
			"content":    "It was a dark and stormy night.",
		},
	}

	submission, err := ParseSubmission(msg)
	require.NoError(t, err)
	assert.Equal(t, "doc-42", submission.DocumentID)
	assert.Equal(t, "author-7", submission.AuthorID)
	assert.Equal(t, "Chapter One", submission.Title)
	assert.Equal(t, "It was a dark and stormy night.", submission.Content)
}

func TestParseSubmissionMissingDocumentID(t *testing.T) {
	_, err := ParseSubmission(&StreamMessage{
		ID:     "1-0",
		Fields: map[string]string{"authorId": "author-7"},
	})
	assert.Error(t, err)
}

func TestParseSubmissionMissingAuthorID(t *testing.T) {
	_, err := ParseSubmission(&StreamMessage{
		ID:     "1-0",
		Fields: map[string]string{"documentId": "doc-42"},
	})
	assert.Error(t, err)
}

func TestParseSubmissionEmptyContentIsValid(t *testing.T) {
	submission, err := ParseSubmission(&StreamMessage{
		ID: "1-0",
		Fields: map[string]string{
			"documentId": "doc-42",
			"authorId":   "author-7",
		},
	})
	require.NoError(t, err)
	assert.Empty(t, submission.Content)
}
