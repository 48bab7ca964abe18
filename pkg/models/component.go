package models

import (
	"sort"

	"github.com/google/uuid"
)

// Point is a single cell coordinate in a character grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoundingBox is the minimal axis-aligned rectangle covering a point set.
type BoundingBox struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Width returns the box width in cells.
func (b BoundingBox) Width() int {
	return b.MaxX - b.MinX + 1
}

// Height returns the box height in cells.
func (b BoundingBox) Height() int {
	return b.MaxY - b.MinY + 1
}

// Area returns the number of cells covered by the box.
func (b BoundingBox) Area() int {
	return b.Width() * b.Height()
}

// CenterX returns the rounded horizontal center of the box.
func (b BoundingBox) CenterX() int {
	return (b.MinX + b.MaxX) / 2
}

// CenterY returns the rounded vertical center of the box.
func (b BoundingBox) CenterY() int {
	return (b.MinY + b.MaxY) / 2
}

// Encloses reports whether b strictly encloses other on all four sides.
func (b BoundingBox) Encloses(other BoundingBox) bool {
	return b.MinX < other.MinX && b.MinY < other.MinY &&
		b.MaxX > other.MaxX && b.MaxY > other.MaxY
}

// Overlaps reports whether b and other share at least one cell.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	return b.MinX <= other.MaxX && other.MinX <= b.MaxX &&
		b.MinY <= other.MaxY && other.MinY <= b.MaxY
}

// Expand returns the box grown by n cells on every side.
func (b BoundingBox) Expand(n int) BoundingBox {
	return BoundingBox{MinX: b.MinX - n, MinY: b.MinY - n, MaxX: b.MaxX + n, MaxY: b.MaxY + n}
}

// Union returns the smallest box covering both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	out := b
	if other.MinX < out.MinX {
		out.MinX = other.MinX
	}
	if other.MinY < out.MinY {
		out.MinY = other.MinY
	}
	if other.MaxX > out.MaxX {
		out.MaxX = other.MaxX
	}
	if other.MaxY > out.MaxY {
		out.MaxY = other.MaxY
	}
	return out
}

// BoxStyle classifies the glyph family a region's boundary is drawn in.
type BoxStyle string

const (
	SingleLineBox BoxStyle = "single_line_box"
	DoubleLineBox BoxStyle = "double_line_box"
	HeavyLineBox  BoxStyle = "heavy_line_box"
	RoundedBox    BoxStyle = "rounded_box"
	CustomBox     BoxStyle = "custom"
)

// SpecialFeatures holds content-derived flags for a component.
type SpecialFeatures struct {
	IsButton         bool     `json:"is_button"`
	ButtonTexts      []string `json:"button_texts,omitempty"`
	HasFilledCircle  bool     `json:"has_filled_circle"`
	HasEmptyCircle   bool     `json:"has_empty_circle"`
	HasExpandArrow   bool     `json:"has_expand_arrow"`
	HasCollapseArrow bool     `json:"has_collapse_arrow"`
	HasCheckedBox    bool     `json:"has_checked_box"`
	HasUncheckedBox  bool     `json:"has_unchecked_box"`
}

// Component is one enclosed region recognized in the grid. Interior and
// boundary sets are disjoint; Bounds is the tight box over their union.
type Component struct {
	ID        string             `json:"id"`
	Interior  map[Point]struct{} `json:"-"`
	Boundary  map[Point]struct{} `json:"-"`
	Bounds    BoundingBox        `json:"bounds"`
	Histogram map[rune]int       `json:"-"`
	BoxStyle  BoxStyle           `json:"box_style"`
	Features  SpecialFeatures    `json:"features"`
}

// NewComponent creates an empty component with a fresh id.
func NewComponent() *Component {
	return &Component{
		ID:        uuid.NewString(),
		Interior:  make(map[Point]struct{}),
		Boundary:  make(map[Point]struct{}),
		Histogram: make(map[rune]int),
	}
}

// RecomputeBounds recalculates the tight bounding box from the interior and
// boundary point sets. A component with no points keeps a zero box.
func (c *Component) RecomputeBounds() {
	first := true
	visit := func(p Point) {
		if first {
			c.Bounds = BoundingBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			first = false
			return
		}
		if p.X < c.Bounds.MinX {
			c.Bounds.MinX = p.X
		}
		if p.Y < c.Bounds.MinY {
			c.Bounds.MinY = p.Y
		}
		if p.X > c.Bounds.MaxX {
			c.Bounds.MaxX = p.X
		}
		if p.Y > c.Bounds.MaxY {
			c.Bounds.MaxY = p.Y
		}
	}
	for p := range c.Interior {
		visit(p)
	}
	for p := range c.Boundary {
		visit(p)
	}
}

// InteriorRows returns the interior content reconstructed line by line in
// reading order, one string per row that has at least one interior cell.
// The grid the component came from supplies characters via lookup.
func (c *Component) InteriorRows(lookup func(x, y int) (rune, bool)) []string {
	byRow := make(map[int][]Point)
	for p := range c.Interior {
		byRow[p.Y] = append(byRow[p.Y], p)
	}
	ys := make([]int, 0, len(byRow))
	for y := range byRow {
		ys = append(ys, y)
	}
	sort.Ints(ys)

	rows := make([]string, 0, len(ys))
	for _, y := range ys {
		pts := byRow[y]
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		line := make([]rune, 0, len(pts))
		for _, p := range pts {
			ch, ok := lookup(p.X, p.Y)
			if !ok {
				continue
			}
			line = append(line, ch)
		}
		rows = append(rows, string(line))
	}
	return rows
}
