package models

import (
	"time"
)

type Step string

const (
	StepIdle        Step = "idle"
	StepInitiated   Step = "initiated"
	StepExtracting  Step = "extracting_candidates"
	StepSearching   Step = "searching"
	StepFetching    Step = "fetching"
	StepScoring     Step = "scoring"
	StepAggregating Step = "aggregating"
	StepDone        Step = "done"
	StepFailed      Step = "failed"
)

// Document is a text asset owned by an author (a book, a manuscript chapter).
// Content is the already-extracted plain text; upload-format handling lives
// upstream.
type Document struct {
	ID       string `bson:"documentId" json:"documentId"`
	AuthorID string `bson:"authorId" json:"authorId"`
	Title    string `bson:"title" json:"title"`
	Content  string `bson:"content" json:"content"`
}

// Submission is a document ingestion request arriving on the Redis stream.
type Submission struct {
	DocumentID string `json:"documentId"`
	AuthorID   string `json:"authorId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// CandidateSentence is a probe sentence selected from a normalized document,
// ranked by informativeness.
type CandidateSentence struct {
	Text          string `bson:"text" json:"text"`
	SourceOffset  int    `bson:"sourceOffset" json:"sourceOffset"`
	DistinctWords int    `bson:"distinctWords" json:"distinctWords"`
}

// Artifact is the stored, preprocessed form of a document: raw content plus
// the derived normalized text and candidate sentences computed at ingest time.
type Artifact struct {
	DocumentID     string              `bson:"documentId" json:"documentId"`
	AuthorID       string              `bson:"authorId" json:"authorId"`
	Title          string              `bson:"title" json:"title"`
	Content        string              `bson:"content" json:"content"`
	NormalizedText string              `bson:"normalizedText" json:"normalizedText"`
	Candidates     []CandidateSentence `bson:"candidates" json:"candidates"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// CheckRequest represents a request to run a web plagiarism check
type CheckRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
}

// CompareRequest represents a request to compare a document against the
// author's other documents
type CompareRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
}

// CheckResponse represents the response from the check endpoint
type CheckResponse struct {
	Step       Step   `json:"step"`
	DocumentID string `json:"documentId"`
	ReportID   string `json:"reportId"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
