// Package region detects enclosed, boundary-delimited regions in a
// character grid via iterative flood fill and derives their box style and
// content features.
package region

import (
	"strings"

	grid "github.com/gridsight/gridsight/pipelines/Grid"
	"github.com/gridsight/gridsight/pkg/models"
)

// Options configures region detection.
type Options struct {
	// BoundaryChars are glyphs that delimit regions and are never absorbed
	// into an interior.
	BoundaryChars string
	// IgnoreChars are background glyphs that neither seed nor join regions.
	IgnoreChars string
	// MinSize is the minimum interior cell count for a region to be kept.
	MinSize int
}

// DefaultBoundaryChars covers the four supported box glyph families plus
// their ASCII equivalents.
const DefaultBoundaryChars = "+-|─│┌┐└┘├┤┬┴┼═║╔╗╚╝╠╣╦╩╬━┃┏┓┗┛┣┫┳┻╋╭╮╰╯"

// DefaultOptions returns detection options suitable for common mockups.
func DefaultOptions() Options {
	return Options{BoundaryChars: DefaultBoundaryChars, MinSize: 1}
}

type cellClass uint8

const (
	classInterior cellClass = iota
	classBoundary
	classIgnore
)

// Detect flood-fills the grid into enclosed regions. Each unvisited
// interior-candidate cell seeds an iterative 4-connected fill; boundary
// neighbors, diagonal ones included, are recorded without being expanded
// through. Regions smaller
// than opts.MinSize, regions that touch no boundary cell at all, and
// fills that reach the grid edge are discarded. An empty grid yields an
// empty slice.
func Detect(g *grid.Grid, opts Options) []models.Component {
	if g == nil || g.Empty() {
		return nil
	}

	classify := func(ch rune) cellClass {
		switch {
		case strings.ContainsRune(opts.BoundaryChars, ch):
			return classBoundary
		case strings.ContainsRune(opts.IgnoreChars, ch):
			return classIgnore
		default:
			return classInterior
		}
	}

	w, h := g.Width(), g.Height()
	visited := make([]bool, w*h)

	var out []models.Component
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] {
				continue
			}
			ch, _ := g.Get(x, y)
			if classify(ch) != classInterior {
				continue
			}
			comp := fill(g, x, y, w, visited, classify)
			if len(comp.Boundary) == 0 {
				continue
			}
			if len(comp.Interior) < opts.MinSize {
				continue
			}
			if touchesEdge(comp, w, h) {
				// A fill that reaches the grid edge leaked out of every
				// boundary, so it is background, not an enclosed region.
				continue
			}
			comp.RecomputeBounds()
			deriveFeatures(comp, g)
			out = append(out, *comp)
		}
	}
	return out
}

func touchesEdge(comp *models.Component, w, h int) bool {
	for p := range comp.Interior {
		if p.X == 0 || p.Y == 0 || p.X == w-1 || p.Y == h-1 {
			return true
		}
	}
	return false
}

// fill runs one explicit-stack flood fill from the seed. Recursion is
// deliberately avoided so large grids cannot overflow the call stack.
func fill(g *grid.Grid, seedX, seedY, w int, visited []bool, classify func(rune) cellClass) *models.Component {
	comp := models.NewComponent()

	stack := []models.Point{{X: seedX, Y: seedY}}
	visited[seedY*w+seedX] = true
	comp.Interior[models.Point{X: seedX, Y: seedY}] = struct{}{}
	if ch, ok := g.Get(seedX, seedY); ok {
		comp.Histogram[ch]++
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range [4]models.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			ch, ok := g.Get(nx, ny)
			if !ok {
				continue
			}
			np := models.Point{X: nx, Y: ny}
			switch classify(ch) {
			case classBoundary:
				comp.Boundary[np] = struct{}{}
			case classInterior:
				if visited[ny*w+nx] {
					continue
				}
				visited[ny*w+nx] = true
				comp.Interior[np] = struct{}{}
				comp.Histogram[ch]++
				stack = append(stack, np)
			}
		}
		// Corner glyphs sit diagonally from every interior cell, so the
		// boundary set must include diagonal neighbors too. The fill
		// itself stays 4-connected.
		for _, d := range [4]models.Point{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if ch, ok := g.Get(nx, ny); ok && classify(ch) == classBoundary {
				comp.Boundary[models.Point{X: nx, Y: ny}] = struct{}{}
			}
		}
	}
	return comp
}
