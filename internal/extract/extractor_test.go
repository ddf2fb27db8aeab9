package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesNeverExceedsK(t *testing.T) {
	text := strings.Join([]string{
		"the first long sentence talks about winter storms over the coast.",
		"a second long sentence describes the harvest failing in the valley.",
		"the third long sentence mentions travelers crossing frozen rivers.",
		"a fourth long sentence covers merchants abandoning the old road.",
		"the fifth long sentence recalls villages starving through the dark months.",
	}, " ")

	got := Candidates(text, 3)
	require.Len(t, got, 3)
}

func TestCandidatesFiltersShortAndLowDiversity(t *testing.T) {
	text := "short one. yes yes yes yes yes yes yes yes yes yes yes. " +
		"this qualifying sentence contains many clearly distinct useful words."

	got := Candidates(text, 3)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Text, "qualifying sentence")
}

func TestCandidatesEveryResultSatisfiesFilters(t *testing.T) {
	text := "tiny. the merchant counted forty barrels of salted fish before dawn broke. " +
		strings.Repeat("x", 250) + ". another proper sentence where soldiers marched past the burned granary."

	for _, c := range Candidates(text, 5) {
		assert.GreaterOrEqual(t, len(c.Text), 30)
		assert.LessOrEqual(t, len(c.Text), 200)
		assert.Greater(t, c.DistinctWords, 5)
	}
}

func TestCandidatesRankedByDistinctWordsStable(t *testing.T) {
	// Second sentence has more distinct words than the first.
	text := "one two three four five six seven. " +
		"alpha beta gamma delta epsilon zeta eta theta iota kappa lambda."

	got := Candidates(text, 2)
	require.Len(t, got, 2)
	assert.Contains(t, got[0].Text, "alpha")
	assert.Contains(t, got[1].Text, "one two")
	assert.Greater(t, got[0].DistinctWords, got[1].DistinctWords)
}

func TestCandidatesOffsetsSurviveEllipses(t *testing.T) {
	text := "he waited... the merchant counted forty barrels of salted fish before dawn broke."

	got := Candidates(text, 3)
	require.Len(t, got, 1)
	assert.Equal(t, strings.Index(text, "the merchant"), got[0].SourceOffset)
	assert.Equal(t, got[0].Text, text[got[0].SourceOffset:got[0].SourceOffset+len(got[0].Text)])
}

func TestCandidatesLengthWindowCountsRunes(t *testing.T) {
	// 111 runes but 216+ bytes: must pass the 30-200 window.
	words := []string{
		strings.Repeat("á", 15), strings.Repeat("é", 15), strings.Repeat("í", 15),
		strings.Repeat("ó", 15), strings.Repeat("ú", 15), strings.Repeat("à", 15),
		strings.Repeat("è", 15),
	}
	text := strings.Join(words, " ") + "."
	require.Greater(t, len(text), 200)

	got := Candidates(text, 3)
	require.Len(t, got, 1)
	assert.Equal(t, text, got[0].Text)
}

func TestCandidatesEmptyText(t *testing.T) {
	assert.Empty(t, Candidates("", 3))
}

func TestCandidatesFewerThanKQualify(t *testing.T) {
	text := "only this single sentence qualifies with enough distinct words present."
	got := Candidates(text, 3)
	require.Len(t, got, 1)
}
