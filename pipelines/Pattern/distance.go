// Package pattern locates exact and near-exact copies of sub-patterns in a
// character grid and discovers repeating sub-patterns, using normalized
// edit-distance similarity.
package pattern

import "strings"

// Levenshtein returns the standard edit distance between a and b with unit
// insert, delete and substitute costs. O(n*m) time, two-row space.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// RowSimilarity is 1 - levenshtein(a,b)/max(len(a),len(b)). Two empty
// strings are identical, similarity 1.
func RowSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 1
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}

// NeedlemanWunsch computes a global alignment of a and b with match +1,
// mismatch -1 and gap -1, returning the two gap-padded aligned strings and
// the alignment score.
func NeedlemanWunsch(a, b string) (string, string, int) {
	const (
		match    = 1
		mismatch = -1
		gap      = -1
	)
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)

	score := make([][]int, n+1)
	for i := range score {
		score[i] = make([]int, m+1)
		score[i][0] = i * gap
	}
	for j := 0; j <= m; j++ {
		score[0][j] = j * gap
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			s := mismatch
			if ra[i-1] == rb[j-1] {
				s = match
			}
			score[i][j] = max3(score[i-1][j-1]+s, score[i-1][j]+gap, score[i][j-1]+gap)
		}
	}

	var alignedA, alignedB strings.Builder
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && score[i][j] == score[i-1][j-1]+pairScore(ra[i-1], rb[j-1], match, mismatch):
			alignedA.WriteRune(ra[i-1])
			alignedB.WriteRune(rb[j-1])
			i--
			j--
		case i > 0 && score[i][j] == score[i-1][j]+gap:
			alignedA.WriteRune(ra[i-1])
			alignedB.WriteRune('-')
			i--
		default:
			alignedA.WriteRune('-')
			alignedB.WriteRune(rb[j-1])
			j--
		}
	}
	return reverse(alignedA.String()), reverse(alignedB.String()), score[n][m]
}

// LCS returns the longest common subsequence of a and b.
func LCS(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 || m == 0 {
		return ""
	}

	lengths := make([][]int, n+1)
	for i := range lengths {
		lengths[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if ra[i-1] == rb[j-1] {
				lengths[i][j] = lengths[i-1][j-1] + 1
			} else if lengths[i-1][j] >= lengths[i][j-1] {
				lengths[i][j] = lengths[i-1][j]
			} else {
				lengths[i][j] = lengths[i][j-1]
			}
		}
	}

	var sb strings.Builder
	i, j := n, m
	for i > 0 && j > 0 {
		switch {
		case ra[i-1] == rb[j-1]:
			sb.WriteRune(ra[i-1])
			i--
			j--
		case lengths[i-1][j] >= lengths[i][j-1]:
			i--
		default:
			j--
		}
	}
	return reverse(sb.String())
}

func pairScore(a, b rune, match, mismatch int) int {
	if a == b {
		return match
	}
	return mismatch
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
