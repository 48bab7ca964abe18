// Package grid provides the owned, mutable 2D character grid the
// recognition pipeline operates on. Every row holds exactly Width runes;
// out-of-bounds access is reported, never panics.
package grid

import (
	"fmt"
	"strings"

	"github.com/gridsight/gridsight/pkg/models"
)

// Grid is a rectangular block of characters.
type Grid struct {
	width  int
	height int
	cells  [][]rune
}

// New creates a width x height grid filled with spaces. Non-positive
// dimensions yield an empty grid.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		return &Grid{}
	}
	cells := make([][]rune, height)
	for y := range cells {
		row := make([]rune, width)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &Grid{width: width, height: height, cells: cells}
}

// FromText builds a grid from a block of text. Lines are split on newlines
// and padded with spaces to the longest line. Empty input yields an empty
// grid.
func FromText(text string) *Grid {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return &Grid{}
	}
	lines := strings.Split(text, "\n")
	width := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	if width == 0 {
		return &Grid{}
	}
	g := New(width, len(lines))
	for y, line := range lines {
		for x, ch := range []rune(line) {
			g.cells[y][x] = ch
		}
	}
	return g
}

// FromRows builds a grid from pre-split rows, padded to the widest row.
func FromRows(rows []string) *Grid {
	return FromText(strings.Join(rows, "\n"))
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Empty reports whether the grid has no cells.
func (g *Grid) Empty() bool { return g.width == 0 || g.height == 0 }

// InBounds reports whether (x,y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the character at (x,y) and whether the coordinate is valid.
func (g *Grid) Get(x, y int) (rune, bool) {
	if !g.InBounds(x, y) {
		return 0, false
	}
	return g.cells[y][x], true
}

// Set writes the character at (x,y), reporting whether the coordinate is
// valid.
func (g *Grid) Set(x, y int, ch rune) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y][x] = ch
	return true
}

// Row returns row y as a string, or "" when out of bounds.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= g.height {
		return ""
	}
	return string(g.cells[y])
}

// Rows returns all rows as strings.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	for y := 0; y < g.height; y++ {
		rows[y] = string(g.cells[y])
	}
	return rows
}

// String renders the grid as newline-joined rows.
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	if g.Empty() {
		return &Grid{}
	}
	out := New(g.width, g.height)
	for y := range g.cells {
		copy(out.cells[y], g.cells[y])
	}
	return out
}

// Sub returns a copy of the w x h window anchored at (x,y), clipped to the
// grid. A window fully outside the grid yields an empty grid.
func (g *Grid) Sub(x, y, w, h int) *Grid {
	if w <= 0 || h <= 0 || g.Empty() {
		return &Grid{}
	}
	x1, y1 := x, y
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	x2, y2 := x+w-1, y+h-1
	if x2 >= g.width {
		x2 = g.width - 1
	}
	if y2 >= g.height {
		y2 = g.height - 1
	}
	if x1 > x2 || y1 > y2 {
		return &Grid{}
	}
	out := New(x2-x1+1, y2-y1+1)
	for yy := y1; yy <= y2; yy++ {
		copy(out.cells[yy-y1], g.cells[yy][x1:x2+1])
	}
	return out
}

// ApplyDelta mutates the grid according to a delta. Char and region deltas
// with out-of-bounds coordinates are an error; a full delta replaces the
// grid contents entirely.
func (g *Grid) ApplyDelta(d models.GridDelta) error {
	switch v := d.(type) {
	case models.CharDelta:
		if !g.Set(v.X, v.Y, v.Char) {
			return fmt.Errorf("char delta out of bounds: (%d,%d) on %dx%d grid", v.X, v.Y, g.width, g.height)
		}
		return nil
	case models.RegionDelta:
		if v.X1 > v.X2 || v.Y1 > v.Y2 {
			return fmt.Errorf("region delta has inverted bounds: (%d,%d)-(%d,%d)", v.X1, v.Y1, v.X2, v.Y2)
		}
		if !g.InBounds(v.X1, v.Y1) || !g.InBounds(v.X2, v.Y2) {
			return fmt.Errorf("region delta out of bounds: (%d,%d)-(%d,%d) on %dx%d grid", v.X1, v.Y1, v.X2, v.Y2, g.width, g.height)
		}
		for dy := 0; dy <= v.Y2-v.Y1; dy++ {
			var row []rune
			if dy < len(v.Rows) {
				row = []rune(v.Rows[dy])
			}
			for dx := 0; dx <= v.X2-v.X1; dx++ {
				ch := ' '
				if dx < len(row) {
					ch = row[dx]
				}
				g.cells[v.Y1+dy][v.X1+dx] = ch
			}
		}
		return nil
	case models.FullDelta:
		repl := FromRows(v.Rows)
		*g = *repl
		return nil
	default:
		return fmt.Errorf("unknown delta kind %T", d)
	}
}
