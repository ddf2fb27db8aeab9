// Package similarity implements the four scoring strategies used for
// plagiarism detection: sequence-ratio, TF-IDF cosine, character n-gram
// Jaccard and dense-embedding cosine. All scorers are symmetric, stateless
// and return values in [0,1].
package similarity

// SequenceSimilarity computes the classic diff-style matching-blocks ratio
// between two strings: 2*M/T where M is the total matched rune count over
// all maximal matching blocks and T is the combined length of both inputs.
// Returns 1.0 for identical strings (including two empty strings) and 0.0
// for fully disjoint ones.
func SequenceSimilarity(text1, text2 string) float64 {
	a := []rune(text1)
	b := []rune(text2)

	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}

	matched := matchingBlockSize(a, b)
	return 2.0 * float64(matched) / float64(total)
}

type matchSpan struct {
	alo, ahi, blo, bhi int
}

// matchingBlockSize sums the sizes of all maximal matching blocks found by
// recursively splitting around the longest common block (Ratcliff/Obershelp).
func matchingBlockSize(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	queue := []matchSpan{{0, len(a), 0, len(b)}}
	matched := 0

	for len(queue) > 0 {
		span := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(a, b2j, span)
		if size == 0 {
			continue
		}
		matched += size

		if span.alo < i && span.blo < j {
			queue = append(queue, matchSpan{span.alo, i, span.blo, j})
		}
		if i+size < span.ahi && j+size < span.bhi {
			queue = append(queue, matchSpan{i + size, span.ahi, j + size, span.bhi})
		}
	}

	return matched
}

// longestMatch finds the longest block of a[alo:ahi] matching inside
// b[blo:bhi], scanning with a rolling run-length table keyed by b positions.
func longestMatch(a []rune, b2j map[rune][]int, span matchSpan) (besti, bestj, bestsize int) {
	besti, bestj = span.alo, span.blo

	runLens := make(map[int]int)
	for i := span.alo; i < span.ahi; i++ {
		newRunLens := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < span.blo {
				continue
			}
			if j >= span.bhi {
				break
			}
			k := runLens[j-1] + 1
			newRunLens[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		runLens = newRunLens
	}

	return besti, bestj, bestsize
}
