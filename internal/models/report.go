package models

import (
	"time"
)

// Method identifies one similarity scoring strategy.
type Method string

const (
	MethodSequence  Method = "sequence"
	MethodTFIDF     Method = "tfidf"
	MethodNgram     Method = "ngram"
	MethodEmbedding Method = "embedding"
)

// SimilarityScore is one measurement of one method over a text pair.
// A failing scorer contributes 0.0 rather than aborting the comparison, so
// aggregation always receives exactly one value per configured method.
type SimilarityScore struct {
	Method Method  `bson:"method" json:"method"`
	Value  float64 `bson:"value" json:"value"`
}

// SimilarityMatch is the result of comparing one candidate sentence (or one
// whole document) against one reference source.
type SimilarityMatch struct {
	Sentence       string            `bson:"sentence" json:"sentence"`
	Source         string            `bson:"source" json:"source"` // document id or URL
	Title          string            `bson:"title" json:"title"`
	Snippet        string            `bson:"snippet" json:"snippet"`
	Scores         []SimilarityScore `bson:"scores" json:"scores"`
	AggregateScore float64           `bson:"aggregateScore" json:"aggregateScore"`
	Matched        bool              `bson:"matched" json:"matched"`
}

// ReportKind distinguishes document-vs-corpus from document-vs-web reports.
type ReportKind string

const (
	ReportKindLocal ReportKind = "local"
	ReportKindWeb   ReportKind = "web"
)

// Report is the outcome of one plagiarism check. Matches may be empty;
// absence of matches is a valid, common outcome, not an error.
type Report struct {
	ID              string            `bson:"reportId" json:"reportId"`
	DocumentID      string            `bson:"documentId" json:"documentId"`
	Kind            ReportKind        `bson:"kind" json:"kind"`
	Status          string            `bson:"status" json:"status"` // pending, completed, failed
	Matches         []SimilarityMatch `bson:"matches" json:"matches"`
	MaxScore        float64           `bson:"maxScore" json:"maxScore"`
	Matched         bool              `bson:"matched" json:"matched"`
	BestMatchSource string            `bson:"bestMatchSource" json:"bestMatchSource"`
	SkippedMethods  []Method          `bson:"skippedMethods" json:"skippedMethods"`
	CoverageNotes   []string          `bson:"coverageNotes" json:"coverageNotes"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
}

// SearchHit is one ranked result from a web search provider.
type SearchHit struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}
