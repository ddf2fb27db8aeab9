package stream

import (
	"fmt"

	"github.com/inkforge/scribeguard/internal/models"
)

// StreamMessage is one raw entry read from the submissions stream.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseSubmission maps stream fields onto a Submission, rejecting entries
// without the identifying fields. Content may legitimately be empty; the
// pipeline degrades that to a skipped check rather than an ingest failure.
func ParseSubmission(msg *StreamMessage) (*models.Submission, error) {
	documentID := msg.Fields["documentId"]
	if documentID == "" {
		return nil, fmt.Errorf("message %s missing documentId", msg.ID)
	}
	authorID := msg.Fields["authorId"]
	if authorID == "" {
		return nil, fmt.Errorf("message %s missing authorId", msg.ID)
	}

	return &models.Submission{
		DocumentID: documentID,
		AuthorID:   authorID,
		Title:      msg.Fields["title"],
		Content:    msg.Fields["content"],
	}, nil
}
