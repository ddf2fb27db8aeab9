// Package corpus compares a document against a caller-supplied set of
// reference documents (typically the same author's other books).
package corpus

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/inkforge/scribeguard/internal/textnorm"
	"github.com/rs/zerolog/log"
)

// Scorer is the slice of the similarity engine the comparator needs.
type Scorer interface {
	ScorePair(ctx context.Context, text1, text2 string) []models.SimilarityScore
	Aggregate(scores []models.SimilarityScore) float64
	SkippedMethods() []models.Method
}

// Comparator runs full-document comparisons: whole normalized text against
// whole normalized text, for precision over the sentence-probe approach used
// for web checks.
type Comparator struct {
	scorer        Scorer
	threshold     float64
	minTextLength int
}

func NewComparator(scorer Scorer, threshold float64, minTextLength int) *Comparator {
	return &Comparator{
		scorer:        scorer,
		threshold:     threshold,
		minTextLength: minTextLength,
	}
}

// Compare scores the subject document against every corpus document,
// skipping the subject itself and references too short to carry signal.
// Scanning stops at the first comparison whose aggregate meets the strict
// threshold: one confirmed high-similarity source is enough to flag the
// document, so exhaustive ranking is deliberately skipped.
func (c *Comparator) Compare(ctx context.Context, document models.Document, corpus []models.Document) *models.Report {
	report := &models.Report{
		ID:             uuid.New().String(),
		DocumentID:     document.ID,
		Kind:           models.ReportKindLocal,
		Status:         "completed",
		Matches:        []models.SimilarityMatch{},
		SkippedMethods: c.scorer.SkippedMethods(),
		CreatedAt:      time.Now(),
	}

	subject := textnorm.Normalize(document.Content)
	if len(subject) < c.minTextLength {
		// Input too short: zero matches, not a failure.
		report.CoverageNotes = append(report.CoverageNotes, "document below minimum text length, comparison skipped")
		return report
	}

	for _, reference := range corpus {
		if reference.ID == document.ID {
			continue
		}
		if err := ctx.Err(); err != nil {
			report.CoverageNotes = append(report.CoverageNotes, "comparison cancelled before scanning all references")
			break
		}

		refText := textnorm.Normalize(reference.Content)
		if len(refText) < c.minTextLength {
			continue
		}

		scores := c.scorer.ScorePair(ctx, subject, refText)
		aggregate := c.scorer.Aggregate(scores)

		if aggregate > report.MaxScore {
			report.MaxScore = aggregate
			report.BestMatchSource = reference.ID
		}

		if aggregate >= c.threshold {
			report.Matched = true
			report.Matches = append(report.Matches, models.SimilarityMatch{
				Source:         reference.ID,
				Title:          reference.Title,
				Snippet:        snippetOf(refText),
				Scores:         scores,
				AggregateScore: aggregate,
				Matched:        true,
			})
			log.Info().
				Str("documentId", document.ID).
				Str("matchedDocumentId", reference.ID).
				Float64("score", aggregate).
				Msg("Local comparison matched, stopping scan")
			break
		}
	}

	return report
}

func snippetOf(text string) string {
	const snippetLen = 200
	runes := []rune(text)
	if len(runes) <= snippetLen {
		return text
	}
	return string(runes[:snippetLen])
}
