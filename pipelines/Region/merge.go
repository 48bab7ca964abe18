package region

import (
	"sort"

	grid "github.com/gridsight/gridsight/pipelines/Grid"
	"github.com/gridsight/gridsight/pkg/models"
)

// MergeAdjacent merges components whose bounding boxes overlap or sit within
// one cell of each other along one axis while overlapping on the other.
// Strict enclosure is left for the layout containment analysis to report.
// Merging unions point sets and recomputes boxes and derived features; the
// pass repeats until no merge candidates remain, since a merged box can
// become adjacent to components its parts were not.
func MergeAdjacent(components []models.Component, g *grid.Grid) []models.Component {
	if len(components) <= 1 {
		return components
	}

	current := components
	for {
		merged, changed := mergeOnce(current, g)
		if !changed {
			return merged
		}
		current = merged
	}
}

// mergeOnce runs one union-find pass over all pairs.
func mergeOnce(components []models.Component, g *grid.Grid) ([]models.Component, bool) {
	n := len(components)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if rb < ra {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	changed := false
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if adjacent(components[i].Bounds, components[j].Bounds) {
				if find(i) != find(j) {
					changed = true
				}
				union(i, j)
			}
		}
	}
	if !changed {
		return components, false
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := find(i)
		groups[root] = append(groups[root], i)
	}
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	out := make([]models.Component, 0, len(roots))
	for _, root := range roots {
		members := groups[root]
		if len(members) == 1 {
			out = append(out, components[members[0]])
			continue
		}
		out = append(out, *mergeGroup(components, members, g))
	}
	return out, true
}

// adjacent reports whether two boxes overlap or are separated by at most
// one cell along either axis while overlapping along the other. A box
// strictly enclosing the other is a container relationship, not an
// adjacency, and never merges.
func adjacent(a, b models.BoundingBox) bool {
	if a.Encloses(b) || b.Encloses(a) {
		return false
	}
	if a.Overlaps(b) {
		return true
	}
	xOverlap := a.MinX <= b.MaxX && b.MinX <= a.MaxX
	yOverlap := a.MinY <= b.MaxY && b.MinY <= a.MaxY
	// A gap of one cell means the nearer edges differ by two coordinates.
	xNear := a.MinX <= b.MaxX+2 && b.MinX <= a.MaxX+2
	yNear := a.MinY <= b.MaxY+2 && b.MinY <= a.MaxY+2
	if yOverlap && xNear {
		return true
	}
	if xOverlap && yNear {
		return true
	}
	return false
}

// mergeGroup unions the point sets of a merge group into one component.
// The first member in slice order keeps its identity.
func mergeGroup(components []models.Component, members []int, g *grid.Grid) *models.Component {
	base := components[members[0]]
	merged := models.Component{
		ID:        base.ID,
		Interior:  make(map[models.Point]struct{}),
		Boundary:  make(map[models.Point]struct{}),
		Histogram: make(map[rune]int),
	}
	for _, idx := range members {
		c := components[idx]
		for p := range c.Interior {
			merged.Interior[p] = struct{}{}
		}
		for p := range c.Boundary {
			merged.Boundary[p] = struct{}{}
		}
	}
	// Boundary points absorbed by another member's interior stay interior.
	for p := range merged.Interior {
		delete(merged.Boundary, p)
	}
	for p := range merged.Interior {
		if ch, ok := g.Get(p.X, p.Y); ok {
			merged.Histogram[ch]++
		}
	}
	merged.RecomputeBounds()
	deriveFeatures(&merged, g)
	return &merged
}
