// Package extract selects high-signal probe sentences from a normalized
// document for use as plagiarism search queries.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/inkforge/scribeguard/internal/models"
)

const (
	// DefaultMaxCandidates bounds the number of probe sentences per check.
	DefaultMaxCandidates = 3

	minSentenceLen   = 30
	maxSentenceLen   = 200
	minDistinctWords = 5 // a qualifying sentence needs more than this
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]?`)

// Candidates splits the normalized text into sentences, filters out
// boilerplate and short fragments, and returns up to k sentences ranked by
// distinct-word count descending with ties broken by original order. Fewer
// than k (possibly zero) sentences are returned when fewer qualify; callers
// treat an empty result as "nothing to check".
func Candidates(normalized string, k int) []models.CandidateSentence {
	if k <= 0 {
		k = DefaultMaxCandidates
	}
	if normalized == "" {
		return nil
	}

	var qualified []models.CandidateSentence
	for _, loc := range sentencePattern.FindAllStringIndex(normalized, -1) {
		raw := normalized[loc[0]:loc[1]]
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		// Match positions come from the regexp engine directly; summing
		// match lengths would drift past runs of terminal punctuation the
		// pattern never consumes.
		sourceOffset := loc[0] + strings.Index(raw, sentence)

		// The length window is a measure of prose, so count runes, not
		// bytes; accented text must not be filtered on inflated lengths.
		if runeLen := utf8.RuneCountInString(sentence); runeLen < minSentenceLen || runeLen > maxSentenceLen {
			continue
		}
		distinct := distinctWordCount(sentence)
		if distinct <= minDistinctWords {
			continue
		}

		qualified = append(qualified, models.CandidateSentence{
			Text:          sentence,
			SourceOffset:  sourceOffset,
			DistinctWords: distinct,
		})
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].DistinctWords > qualified[j].DistinctWords
	})

	if len(qualified) > k {
		qualified = qualified[:k]
	}
	return qualified
}

// Sentences splits normalized text into trimmed sentences, keeping at most
// max of them. Used to bound scoring work on very long fetched pages.
func Sentences(normalized string, max int) []string {
	if normalized == "" || max <= 0 {
		return nil
	}

	var sentences []string
	for _, raw := range sentencePattern.FindAllString(normalized, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		sentences = append(sentences, sentence)
		if len(sentences) == max {
			break
		}
	}
	return sentences
}

func distinctWordCount(sentence string) int {
	words := strings.Fields(sentence)
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?'\"-()")
		if w != "" {
			distinct[w] = struct{}{}
		}
	}
	return len(distinct)
}
