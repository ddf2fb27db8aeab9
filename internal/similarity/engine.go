package similarity

import (
	"context"

	"github.com/inkforge/scribeguard/internal/metrics"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/rs/zerolog/log"
)

// Engine computes the full set of configured similarity scores for a text
// pair. The method set is fixed at construction time: every comparison in a
// run scores the exact same methods, so the aggregate divisor never varies
// per comparison. An unavailable embedding backend excludes the embedding
// method for the whole run and records it as skipped.
type Engine struct {
	methods   []models.Method
	ngramSize int
	embedding *EmbeddingScorer
	skipped   []models.Method
}

// Options configures an Engine.
type Options struct {
	NgramSize int
	Embedder  Embedder // nil disables embedding scoring
}

func NewEngine(opts Options) *Engine {
	if opts.NgramSize <= 0 {
		opts.NgramSize = DefaultNgramSize
	}

	e := &Engine{
		methods:   []models.Method{models.MethodSequence, models.MethodTFIDF, models.MethodNgram},
		ngramSize: opts.NgramSize,
		embedding: NewEmbeddingScorer(opts.Embedder),
	}

	if e.embedding.Available() {
		e.methods = append(e.methods, models.MethodEmbedding)
	} else {
		e.skipped = append(e.skipped, models.MethodEmbedding)
		metrics.ScorerSkips.WithLabelValues(string(models.MethodEmbedding)).Inc()
	}

	log.Info().
		Int("methods", len(e.methods)).
		Int("skipped", len(e.skipped)).
		Msg("Similarity engine initialized")

	return e
}

// Methods returns the fixed method set scored by every comparison.
func (e *Engine) Methods() []models.Method {
	return e.methods
}

// SkippedMethods returns the methods excluded for this run, for report
// metadata.
func (e *Engine) SkippedMethods() []models.Method {
	return e.skipped
}

// ScorePair computes exactly one SimilarityScore per configured method. A
// scorer that panics contributes 0.0 rather than aborting the comparison.
func (e *Engine) ScorePair(ctx context.Context, text1, text2 string) []models.SimilarityScore {
	scores := make([]models.SimilarityScore, 0, len(e.methods))
	for _, method := range e.methods {
		scores = append(scores, models.SimilarityScore{
			Method: method,
			Value:  e.score(ctx, method, text1, text2),
		})
	}
	return scores
}

// Aggregate returns the arithmetic mean of the given scores.
func (e *Engine) Aggregate(scores []models.SimilarityScore) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s.Value
	}
	return sum / float64(len(scores))
}

func (e *Engine) score(ctx context.Context, method models.Method, text1, text2 string) (value float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("method", string(method)).
				Interface("panic", r).
				Msg("Scorer panicked, contributing 0.0")
			value = 0.0
		}
	}()

	switch method {
	case models.MethodSequence:
		return SequenceSimilarity(text1, text2)
	case models.MethodTFIDF:
		return TFIDFSimilarity(text1, text2)
	case models.MethodNgram:
		return NgramSimilarity(text1, text2, e.ngramSize)
	case models.MethodEmbedding:
		return e.embedding.Score(ctx, text1, text2)
	default:
		return 0.0
	}
}
