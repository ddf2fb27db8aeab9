package similarity

// DefaultNgramSize is the character n-gram width used when none is
// configured.
const DefaultNgramSize = 5

// NgramSimilarity computes Jaccard similarity between the sets of character
// n-grams of the two texts: |intersection| / |union|. Returns exactly 0.0
// when either text is shorter than n runes.
func NgramSimilarity(text1, text2 string, n int) float64 {
	if n <= 0 {
		n = DefaultNgramSize
	}

	grams1 := charNgrams(text1, n)
	grams2 := charNgrams(text2, n)
	if len(grams1) == 0 || len(grams2) == 0 {
		return 0.0
	}

	intersection := 0
	for gram := range grams1 {
		if _, ok := grams2[gram]; ok {
			intersection++
		}
	}

	union := len(grams1) + len(grams2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func charNgrams(text string, n int) map[string]struct{} {
	runes := []rune(text)
	if len(runes) < n {
		return nil
	}

	grams := make(map[string]struct{}, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])] = struct{}{}
	}
	return grams
}
