package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Levenshtein(tc.a, tc.b), "Levenshtein(%q,%q)", tc.a, tc.b)
	}
}

func TestLevenshtein_Symmetric(t *testing.T) {
	pairs := [][2]string{{"abc", "xbc"}, {"", "abc"}, {"short", "a much longer string"}}
	for _, p := range pairs {
		assert.Equal(t, Levenshtein(p[0], p[1]), Levenshtein(p[1], p[0]))
	}
}

func TestRowSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, RowSimilarity("", ""), "two empty rows are identical")
	assert.Equal(t, 1.0, RowSimilarity("abcd", "abcd"))
	assert.Equal(t, 0.0, RowSimilarity("abcd", ""))
	assert.InDelta(t, 0.75, RowSimilarity("abcd", "abcx"), 1e-9)
}

func TestNeedlemanWunsch(t *testing.T) {
	alignedA, alignedB, score := NeedlemanWunsch("GATTACA", "GATTACA")
	assert.Equal(t, "GATTACA", alignedA)
	assert.Equal(t, "GATTACA", alignedB)
	assert.Equal(t, 7, score)

	alignedA, alignedB, _ = NeedlemanWunsch("GCAT", "GAT")
	assert.Len(t, alignedA, len(alignedB), "aligned strings have equal length")
	assert.Contains(t, alignedB, "-", "the shorter input gains a gap")
}

func TestLCS(t *testing.T) {
	assert.Equal(t, "", LCS("", "abc"))
	assert.Equal(t, "abc", LCS("abc", "abc"))
	assert.Len(t, LCS("XMJYAUZ", "MZJAWXU"), 4)
	assert.Len(t, LCS("abcdef", "xyz"), 0)
}
