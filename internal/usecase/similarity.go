package usecase

import "math"

// Similarity computes a 0-100 percentage expressing how close two names are
// after normalization. Identical normalized forms (including both empty)
// score 100; otherwise the score is derived from the Levenshtein distance
// relative to the longer string. Symmetric and side-effect free.
func Similarity(a, b string) int {
	na := NormalizeName(a)
	nb := NormalizeName(b)

	if na == nb {
		return 100
	}

	longer, shorter := na, nb
	if len(longer) < len(shorter) {
		longer, shorter = shorter, longer
	}

	distance := levenshteinDistance(longer, shorter)
	return int(math.Round((1 - float64(distance)/float64(len(longer))) * 100))
}

// levenshteinDistance calculates the edit distance between two strings with
// unit insert/delete/substitute costs
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
