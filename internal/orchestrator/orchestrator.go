// Package orchestrator runs the end-to-end web plagiarism pipeline for one
// document: candidate extraction, exact-phrase search, page fetch, scoring
// and aggregation into a report.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkforge/scribeguard/internal/extract"
	"github.com/inkforge/scribeguard/internal/metrics"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/inkforge/scribeguard/internal/similarity"
	"github.com/inkforge/scribeguard/internal/textnorm"
	"github.com/rs/zerolog/log"
)

// SearchProvider issues one exact-phrase query and returns ranked hits.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error)
}

// PageFetcher downloads a page and returns normalized text; ok=false means
// the source is unavailable and must be skipped.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (text string, ok bool)
}

// Scorer computes the configured similarity methods over a text pair.
type Scorer interface {
	ScorePair(ctx context.Context, text1, text2 string) []models.SimilarityScore
	Aggregate(scores []models.SimilarityScore) float64
	SkippedMethods() []models.Method
}

// StatusSink publishes pipeline step transitions for a document.
type StatusSink interface {
	Update(ctx context.Context, documentID string, step models.Step)
}

type Options struct {
	MatchThreshold   float64
	MaxCandidates    int
	MaxHitsPerQuery  int
	MinTextLength    int
	MaxPageSentences int
}

// Orchestrator is safe for concurrent use; each Check builds its own report
// and touches no shared mutable state.
type Orchestrator struct {
	provider SearchProvider // nil when external search is disabled
	fetcher  PageFetcher
	scorer   Scorer
	status   StatusSink // nil disables step reporting
	opts     Options
}

func New(provider SearchProvider, fetcher PageFetcher, scorer Scorer, status StatusSink, opts Options) *Orchestrator {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = extract.DefaultMaxCandidates
	}
	if opts.MaxHitsPerQuery <= 0 {
		opts.MaxHitsPerQuery = 5
	}
	if opts.MaxPageSentences <= 0 {
		opts.MaxPageSentences = 200
	}
	return &Orchestrator{
		provider: provider,
		fetcher:  fetcher,
		scorer:   scorer,
		status:   status,
		opts:     opts,
	}
}

// Check runs the full pipeline for one preprocessed document. Failures of
// external calls degrade to skipped candidates or hits; the only error
// returned is context cancellation between candidates.
func (o *Orchestrator) Check(ctx context.Context, artifact *models.Artifact) (*models.Report, error) {
	started := time.Now()
	report := &models.Report{
		ID:             uuid.NewString(),
		DocumentID:     artifact.DocumentID,
		Kind:           models.ReportKindWeb,
		Status:         "completed",
		Matches:        []models.SimilarityMatch{},
		SkippedMethods: o.scorer.SkippedMethods(),
		CreatedAt:      started,
	}
	defer func() {
		metrics.CheckDuration.WithLabelValues(string(models.ReportKindWeb)).Observe(time.Since(started).Seconds())
		metrics.ChecksTotal.WithLabelValues(string(models.ReportKindWeb), report.Status).Inc()
	}()

	o.setStatus(ctx, artifact.DocumentID, models.StepExtracting)

	if len(artifact.NormalizedText) < o.opts.MinTextLength {
		report.CoverageNotes = append(report.CoverageNotes, "input below minimum length, check skipped")
		o.setStatus(ctx, artifact.DocumentID, models.StepDone)
		return report, nil
	}

	candidates := artifact.Candidates
	if len(candidates) == 0 {
		candidates = extract.Candidates(artifact.NormalizedText, o.opts.MaxCandidates)
	}
	if len(candidates) > o.opts.MaxCandidates {
		candidates = candidates[:o.opts.MaxCandidates]
	}

	// Zero candidates means trivial input: finish without touching the
	// network.
	if len(candidates) == 0 || o.provider == nil {
		if o.provider == nil && len(candidates) > 0 {
			report.CoverageNotes = append(report.CoverageNotes, "external search disabled")
		}
		o.setStatus(ctx, artifact.DocumentID, models.StepDone)
		return report, nil
	}

	for _, candidate := range candidates {
		// Cancellation checkpoint. External calls dominate latency, so
		// between-candidate granularity is enough.
		if err := ctx.Err(); err != nil {
			report.Status = "failed"
			report.CoverageNotes = append(report.CoverageNotes, "check cancelled before completion")
			o.setStatus(ctx, artifact.DocumentID, models.StepFailed)
			return report, err
		}
		o.checkCandidate(ctx, artifact.DocumentID, candidate, report)
	}

	o.setStatus(ctx, artifact.DocumentID, models.StepAggregating)
	// A snippet-triggered match stands even when its full aggregate stays
	// below the threshold, so never clear a verdict already recorded.
	report.Matched = report.Matched || report.MaxScore >= o.opts.MatchThreshold
	o.setStatus(ctx, artifact.DocumentID, models.StepDone)

	return report, nil
}

func (o *Orchestrator) checkCandidate(ctx context.Context, documentID string, candidate models.CandidateSentence, report *models.Report) {
	o.setStatus(ctx, documentID, models.StepSearching)

	hits, err := o.provider.Search(ctx, candidate.Text, o.opts.MaxHitsPerQuery)
	if err != nil {
		log.Warn().Err(err).Str("documentId", documentID).Msg("Search failed, skipping candidate")
		report.CoverageNotes = append(report.CoverageNotes,
			fmt.Sprintf("search unavailable for candidate at offset %d", candidate.SourceOffset))
		return
	}
	if len(hits) == 0 {
		return
	}

	for _, hit := range hits {
		if ctx.Err() != nil {
			return
		}
		if o.checkHit(ctx, documentID, candidate, hit, report) {
			// Candidate already matched; further hits add nothing.
			return
		}
	}
}

// checkHit compares one candidate against one search hit, appending a match
// to the report when the aggregate score clears the threshold. It reports
// whether a match was recorded.
func (o *Orchestrator) checkHit(ctx context.Context, documentID string, candidate models.CandidateSentence, hit models.SearchHit, report *models.Report) bool {
	// Cheap pre-filter: when the result snippet alone clears the
	// threshold on sequence similarity, skip the full page fetch.
	snippet := textnorm.Normalize(hit.Snippet)
	if snippet != "" && similarity.SequenceSimilarity(candidate.Text, snippet) >= o.opts.MatchThreshold {
		scores := o.scorer.ScorePair(ctx, candidate.Text, snippet)
		o.recordMatch(report, candidate, hit, snippet, scores, o.scorer.Aggregate(scores))
		return true
	}

	o.setStatus(ctx, documentID, models.StepFetching)
	pageText, ok := o.fetcher.Fetch(ctx, hit.URL)
	if !ok {
		return false
	}

	o.setStatus(ctx, documentID, models.StepScoring)
	bestScore := 0.0
	var bestSentence string
	var bestScores []models.SimilarityScore
	for _, pageSentence := range extract.Sentences(pageText, o.opts.MaxPageSentences) {
		scores := o.scorer.ScorePair(ctx, candidate.Text, pageSentence)
		aggregate := o.scorer.Aggregate(scores)
		if aggregate > bestScore {
			bestScore = aggregate
			bestSentence = pageSentence
			bestScores = scores
		}
	}

	if bestScore > report.MaxScore {
		report.MaxScore = bestScore
		report.BestMatchSource = hit.URL
	}

	if bestScore >= o.opts.MatchThreshold {
		o.recordMatch(report, candidate, hit, bestSentence, bestScores, bestScore)
		return true
	}
	return false
}

func (o *Orchestrator) recordMatch(report *models.Report, candidate models.CandidateSentence, hit models.SearchHit, snippet string, scores []models.SimilarityScore, aggregate float64) {
	report.Matches = append(report.Matches, models.SimilarityMatch{
		Sentence:       candidate.Text,
		Source:         hit.URL,
		Title:          hit.Title,
		Snippet:        snippet,
		Scores:         scores,
		AggregateScore: aggregate,
		Matched:        true,
	})
	if aggregate > report.MaxScore {
		report.MaxScore = aggregate
		report.BestMatchSource = hit.URL
	}
	report.Matched = true
}

func (o *Orchestrator) setStatus(ctx context.Context, documentID string, step models.Step) {
	if o.status == nil {
		return
	}
	o.status.Update(ctx, documentID, step)
}
