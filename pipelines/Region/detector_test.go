package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grid "github.com/gridsight/gridsight/pipelines/Grid"
	"github.com/gridsight/gridsight/pkg/models"
)

func TestDetect_SingleLineBox(t *testing.T) {
	g := grid.FromText("+------+\n|      |\n+------+")

	components := Detect(g, DefaultOptions())
	require.Len(t, components, 1)

	c := components[0]
	assert.Equal(t, models.SingleLineBox, c.BoxStyle)
	assert.Equal(t, models.BoundingBox{MinX: 0, MinY: 0, MaxX: 7, MaxY: 2}, c.Bounds)
	assert.Len(t, c.Interior, 6)
	assert.NotEmpty(t, c.Boundary)
}

func TestDetect_EmptyGrid(t *testing.T) {
	assert.Empty(t, Detect(grid.FromText(""), DefaultOptions()))
}

func TestDetect_NoBoundaryNeverEmitted(t *testing.T) {
	// Text without any boundary glyph fills to the grid edge and is
	// treated as background.
	g := grid.FromText("hello\nworld")
	assert.Empty(t, Detect(g, DefaultOptions()))
}

func TestDetect_BackgroundAroundBoxDiscarded(t *testing.T) {
	g := grid.FromText("          \n  +----+  \n  | ab |  \n  +----+  \n          ")

	components := Detect(g, DefaultOptions())
	require.Len(t, components, 1)
	assert.Equal(t, models.BoundingBox{MinX: 2, MinY: 1, MaxX: 7, MaxY: 3}, components[0].Bounds)
}

func TestDetect_Idempotent(t *testing.T) {
	g := grid.FromText("+------+\n| data |\n+------+")

	first := Detect(g, DefaultOptions())
	second := Detect(g, DefaultOptions())
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Bounds, second[0].Bounds)
	assert.Equal(t, first[0].BoxStyle, second[0].BoxStyle)
	assert.Equal(t, first[0].Interior, second[0].Interior)
	assert.Equal(t, first[0].Boundary, second[0].Boundary)
}

func TestDetect_MinSize(t *testing.T) {
	g := grid.FromText("+-+\n|x|\n+-+")

	opts := DefaultOptions()
	opts.MinSize = 2
	assert.Empty(t, Detect(g, opts))

	opts.MinSize = 1
	assert.Len(t, Detect(g, opts), 1)
}

func TestDetect_BoxStyles(t *testing.T) {
	cases := []struct {
		name string
		text string
		want models.BoxStyle
	}{
		{"double", "╔══╗\n║  ║\n╚══╝", models.DoubleLineBox},
		{"heavy", "┏━━┓\n┃  ┃\n┗━━┛", models.HeavyLineBox},
		{"rounded", "╭──╮\n│  │\n╰──╯", models.RoundedBox},
		{"mixed is custom", "╔══╗\n│  │\n+--+", models.CustomBox},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			components := Detect(grid.FromText(tc.text), DefaultOptions())
			require.Len(t, components, 1)
			assert.Equal(t, tc.want, components[0].BoxStyle)
		})
	}
}

func TestDetect_CornerGlyphsEnterBoundary(t *testing.T) {
	// Corner glyphs touch the interior only diagonally. If they were
	// missed, a rounded box's glyph set would collapse to {─ │} and be
	// mistaken for a single-line box.
	g := grid.FromText("╭──╮\n│  │\n╰──╯")

	components := Detect(g, DefaultOptions())
	require.Len(t, components, 1)

	for _, corner := range []models.Point{
		{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 2}, {X: 3, Y: 2},
	} {
		assert.Contains(t, components[0].Boundary, corner)
	}
	assert.Equal(t, models.RoundedBox, components[0].BoxStyle)
}

func TestDetect_ButtonFeatures(t *testing.T) {
	g := grid.FromText("+----------------+\n| [OK] [Cancel]  |\n+----------------+")

	components := Detect(g, DefaultOptions())
	require.Len(t, components, 1)

	f := components[0].Features
	assert.True(t, f.IsButton)
	assert.Equal(t, []string{"OK", "Cancel"}, f.ButtonTexts)
}

func TestDetect_IndicatorGlyphs(t *testing.T) {
	g := grid.FromText("+--------+\n| ● ☐ ▼  |\n+--------+")

	components := Detect(g, DefaultOptions())
	require.Len(t, components, 1)

	f := components[0].Features
	assert.True(t, f.HasFilledCircle)
	assert.True(t, f.HasUncheckedBox)
	assert.True(t, f.HasCollapseArrow)
	assert.False(t, f.HasEmptyCircle)
	assert.False(t, f.HasCheckedBox)
	assert.False(t, f.HasExpandArrow)
}

func TestMergeAdjacent_SeparateBoxesStayApart(t *testing.T) {
	g := grid.FromText("+--+    +--+\n|ab|    |cd|\n+--+    +--+")

	components := MergeAdjacent(Detect(g, DefaultOptions()), g)
	assert.Len(t, components, 2)
}

func TestMergeAdjacent_TouchingBoxesMerge(t *testing.T) {
	// The two boxes share a column gap of one cell, which counts as
	// adjacent.
	g := grid.FromText("+--+ +--+\n|ab| |cd|\n+--+ +--+")

	detected := Detect(g, DefaultOptions())
	require.Len(t, detected, 2)

	merged := MergeAdjacent(detected, g)
	require.Len(t, merged, 1)
	assert.Equal(t, detected[0].ID, merged[0].ID, "first member keeps its identity")
	assert.Equal(t, models.BoundingBox{MinX: 0, MinY: 0, MaxX: 8, MaxY: 2}, merged[0].Bounds)
}

func TestMergeAdjacent_FixedPoint(t *testing.T) {
	// Three boxes in a row where each neighbor pair is adjacent must
	// collapse into a single component, not two.
	g := grid.FromText("+-+ +-+ +-+\n|a| |b| |c|\n+-+ +-+ +-+")

	detected := Detect(g, DefaultOptions())
	require.Len(t, detected, 3)
	assert.Len(t, MergeAdjacent(detected, g), 1)
}
