package similarity

import (
	"math"
	"regexp"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// TFIDFSimilarity builds TF-IDF vectors over the two-document corpus
// {text1, text2} and returns their cosine similarity. Smoothed IDF,
// L2-normalized vectors. Degenerate or empty input returns 0.0; no error
// paths exist.
func TFIDFSimilarity(text1, text2 string) float64 {
	tokens1 := tokenPattern.FindAllString(text1, -1)
	tokens2 := tokenPattern.FindAllString(text2, -1)
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0.0
	}

	// Document frequencies over the two-document corpus.
	df := make(map[string]int)
	for _, tokens := range [][]string{tokens1, tokens2} {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	idf := make(map[string]float64, len(df))
	const corpusSize = 2.0
	for term, freq := range df {
		// Smoothed IDF keeps shared terms from vanishing entirely.
		idf[term] = math.Log((1+corpusSize)/(1+float64(freq))) + 1.0
	}

	vec1 := tfidfVector(tokens1, idf)
	vec2 := tfidfVector(tokens2, idf)

	return cosine(vec1, vec2)
}

func tfidfVector(tokens []string, idf map[string]float64) map[string]float64 {
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}

	vec := make(map[string]float64, len(tf))
	norm := 0.0
	for term, count := range tf {
		v := (float64(count) / float64(len(tokens))) * idf[term]
		vec[term] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for term := range vec {
			vec[term] /= norm
		}
	}
	return vec
}

func cosine(vec1, vec2 map[string]float64) float64 {
	dot := 0.0
	for term, v := range vec1 {
		dot += v * vec2[term]
	}
	// Vectors are already L2-normalized; the dot product is the cosine.
	if dot < 0 {
		return 0.0
	}
	if dot > 1 {
		return 1.0
	}
	return dot
}
