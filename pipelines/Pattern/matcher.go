package pattern

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	grid "github.com/gridsight/gridsight/pipelines/Grid"
)

// DefaultMinConfidence is the accept threshold for a candidate placement's
// mean row similarity.
const DefaultMinConfidence = 0.8

// Match is one accepted placement of a pattern.
type Match struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Similarity float64 `json:"similarity"`
}

// FindPattern scans every placement of the pattern's footprint inside the
// grid and returns the placements whose mean per-row similarity reaches
// minConfidence. A zero-size pattern, or a pattern larger than the grid,
// yields no matches. minConfidence <= 0 falls back to the default.
func FindPattern(g, pat *grid.Grid, minConfidence float64) []Match {
	if g == nil || pat == nil || g.Empty() || pat.Empty() {
		return nil
	}
	if pat.Width() > g.Width() || pat.Height() > g.Height() {
		return nil
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	patRows := pat.Rows()
	var out []Match
	for y := 0; y+pat.Height() <= g.Height(); y++ {
		for x := 0; x+pat.Width() <= g.Width(); x++ {
			sim := placementSimilarity(g, patRows, x, y, pat.Width())
			if sim >= minConfidence {
				out = append(out, Match{X: x, Y: y, Similarity: sim})
			}
		}
	}
	return out
}

// placementSimilarity is the mean row similarity of the pattern laid over
// the grid at (x,y).
func placementSimilarity(g *grid.Grid, patRows []string, x, y, w int) float64 {
	sims := make([]float64, len(patRows))
	for i, patRow := range patRows {
		window := g.Sub(x, y+i, w, 1)
		sims[i] = RowSimilarity(window.Row(0), patRow)
	}
	return stat.Mean(sims, nil)
}

// FindRepeating discovers square sub-patterns with side lengths in
// [minSize, maxSize] that occur at least twice. Windows are grouped by
// near-identical canonical content (newline-joined rows, compared with the
// default similarity threshold); the map key is the first-seen canonical
// form of each group. All-blank windows are skipped.
func FindRepeating(g *grid.Grid, minSize, maxSize int) map[string][]Match {
	if g == nil || g.Empty() || minSize <= 0 || maxSize < minSize {
		return nil
	}

	groups := make(map[string][]Match)
	var order []string
	for size := minSize; size <= maxSize && size <= g.Width() && size <= g.Height(); size++ {
		for y := 0; y+size <= g.Height(); y++ {
			for x := 0; x+size <= g.Width(); x++ {
				window := g.Sub(x, y, size, size)
				canonical := window.String()
				if strings.TrimSpace(canonical) == "" {
					continue
				}
				key := matchGroup(order, canonical)
				if key == "" {
					key = canonical
					order = append(order, key)
				}
				groups[key] = append(groups[key], Match{
					X: x, Y: y,
					Similarity: canonicalSimilarity(key, canonical),
				})
			}
		}
	}

	for key, matches := range groups {
		if len(matches) < 2 {
			delete(groups, key)
		}
	}
	if len(groups) == 0 {
		return nil
	}
	return groups
}

// matchGroup returns the first group key the canonical form is near-identical
// to, or "" when it starts a new group.
func matchGroup(order []string, canonical string) string {
	for _, key := range order {
		if canonicalSimilarity(key, canonical) >= DefaultMinConfidence {
			return key
		}
	}
	return ""
}

// canonicalSimilarity compares two canonical window strings row by row.
func canonicalSimilarity(a, b string) float64 {
	aRows := strings.Split(a, "\n")
	bRows := strings.Split(b, "\n")
	n := len(aRows)
	if len(bRows) > n {
		n = len(bRows)
	}
	sims := make([]float64, n)
	for i := 0; i < n; i++ {
		var ar, br string
		if i < len(aRows) {
			ar = aRows[i]
		}
		if i < len(bRows) {
			br = bRows[i]
		}
		sims[i] = RowSimilarity(ar, br)
	}
	return stat.Mean(sims, nil)
}
