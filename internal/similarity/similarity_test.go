package similarity

import (
	"context"
	"testing"

	"github.com/inkforge/scribeguard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceSimilarityIdentity(t *testing.T) {
	texts := []string{
		"a",
		"the quick brown fox jumps over the lazy dog",
		"",
	}
	for _, text := range texts {
		assert.Equal(t, 1.0, SequenceSimilarity(text, text))
	}
}

func TestSequenceSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, SequenceSimilarity("aaaa", "bbbb"))
}

func TestSequenceSimilaritySymmetric(t *testing.T) {
	a := "the cat sat on the mat"
	b := "the dog sat on the log"
	assert.Equal(t, SequenceSimilarity(a, b), SequenceSimilarity(b, a))
}

func TestSequenceSimilarityPartial(t *testing.T) {
	got := SequenceSimilarity("abcd", "bcde")
	// Longest block "bcd" (3 runes): 2*3/8.
	assert.InDelta(t, 0.75, got, 1e-9)
}

func TestTFIDFSimilarityIdentical(t *testing.T) {
	text := "winter came early and the harvest was lost"
	assert.InDelta(t, 1.0, TFIDFSimilarity(text, text), 1e-9)
}

func TestTFIDFSimilarityEmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, TFIDFSimilarity("some text here", ""))
	assert.Equal(t, 0.0, TFIDFSimilarity("", ""))
	assert.Equal(t, 0.0, TFIDFSimilarity("", "other text"))
}

func TestTFIDFSimilaritySymmetric(t *testing.T) {
	a := "rain fell over the harbor all night"
	b := "the harbor lights burned all night"
	assert.InDelta(t, TFIDFSimilarity(a, b), TFIDFSimilarity(b, a), 1e-12)
}

func TestTFIDFSimilarityDisjointVocabulary(t *testing.T) {
	got := TFIDFSimilarity("alpha beta gamma", "delta epsilon zeta")
	assert.Equal(t, 0.0, got)
}

func TestNgramSimilarityIdentity(t *testing.T) {
	text := "plagiarism detection"
	assert.Equal(t, 1.0, NgramSimilarity(text, text, 5))
}

func TestNgramSimilarityShortInput(t *testing.T) {
	assert.Equal(t, 0.0, NgramSimilarity("abcd", "abcdefgh", 5))
	assert.Equal(t, 0.0, NgramSimilarity("abcdefgh", "abc", 5))
	assert.Equal(t, 0.0, NgramSimilarity("", "", 5))
}

func TestNgramSimilaritySymmetric(t *testing.T) {
	a := "he walked into the silent room"
	b := "she walked into the quiet room"
	assert.Equal(t, NgramSimilarity(a, b, 5), NgramSimilarity(b, a, 5))
}

func TestNgramSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, NgramSimilarity("aaaaaaaa", "bbbbbbbb", 5))
}

func TestEmbeddingCosine(t *testing.T) {
	assert.InDelta(t, 1.0, embeddingCosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.Equal(t, 0.0, embeddingCosine([]float32{1, 0}, []float32{0, 1}))
	assert.Equal(t, 0.0, embeddingCosine([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, 0.0, embeddingCosine(nil, nil))
}

func TestEmbeddingScorerUnavailableReturnsZero(t *testing.T) {
	scorer := NewEmbeddingScorer(nil)
	assert.False(t, scorer.Available())
	assert.Equal(t, 0.0, scorer.Score(context.Background(), "one text", "other text"))
	// Deterministic: repeated calls stay 0.0 without re-probing.
	assert.Equal(t, 0.0, scorer.Score(context.Background(), "one text", "other text"))
}

func TestEngineFixedMethodSetWithoutEmbedder(t *testing.T) {
	engine := NewEngine(Options{NgramSize: 5})

	require.Equal(t, []models.Method{models.MethodSequence, models.MethodTFIDF, models.MethodNgram}, engine.Methods())
	assert.Equal(t, []models.Method{models.MethodEmbedding}, engine.SkippedMethods())

	scores := engine.ScorePair(context.Background(), "identical sentence here", "identical sentence here")
	require.Len(t, scores, 3)
	for _, s := range scores {
		assert.InDelta(t, 1.0, s.Value, 1e-9)
	}
	assert.InDelta(t, 1.0, engine.Aggregate(scores), 1e-9)
}

func TestEngineScoresEveryConfiguredMethod(t *testing.T) {
	engine := NewEngine(Options{NgramSize: 5})

	scores := engine.ScorePair(context.Background(), "completely unrelated words", "different vocabulary entirely")
	require.Len(t, scores, len(engine.Methods()))

	seen := make(map[models.Method]bool)
	for _, s := range scores {
		seen[s.Method] = true
		assert.GreaterOrEqual(t, s.Value, 0.0)
		assert.LessOrEqual(t, s.Value, 1.0)
	}
	for _, m := range engine.Methods() {
		assert.True(t, seen[m], "missing score for method %s", m)
	}
}

func TestEngineAggregateEmpty(t *testing.T) {
	engine := NewEngine(Options{})
	assert.Equal(t, 0.0, engine.Aggregate(nil))
}
