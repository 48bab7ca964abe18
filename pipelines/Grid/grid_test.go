package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsight/gridsight/pkg/models"
)

func TestFromText_PadsRaggedLines(t *testing.T) {
	g := FromText("abc\nde\n")

	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, "abc", g.Row(0))
	assert.Equal(t, "de ", g.Row(1))
}

func TestFromText_Empty(t *testing.T) {
	g := FromText("")

	assert.True(t, g.Empty())
	assert.Equal(t, 0, g.Width())
	assert.Equal(t, 0, g.Height())
}

func TestGrid_GetSet(t *testing.T) {
	g := New(3, 2)

	require.True(t, g.Set(1, 1, 'x'))
	ch, ok := g.Get(1, 1)
	require.True(t, ok)
	assert.Equal(t, 'x', ch)

	_, ok = g.Get(3, 0)
	assert.False(t, ok)
	assert.False(t, g.Set(-1, 0, 'x'))
}

func TestGrid_Clone(t *testing.T) {
	g := FromText("ab\ncd")
	clone := g.Clone()

	clone.Set(0, 0, 'z')
	ch, _ := g.Get(0, 0)
	assert.Equal(t, 'a', ch, "clone mutation must not leak into the original")
}

func TestGrid_Sub_Clipped(t *testing.T) {
	g := FromText("abcd\nefgh\nijkl")

	sub := g.Sub(2, 1, 5, 5)
	assert.Equal(t, "gh\nkl", sub.String())

	assert.True(t, g.Sub(10, 10, 2, 2).Empty())
}

func TestGrid_ApplyDelta_Char(t *testing.T) {
	g := FromText("ab\ncd")

	require.NoError(t, g.ApplyDelta(models.CharDelta{X: 1, Y: 0, Char: 'z'}))
	assert.Equal(t, "az\ncd", g.String())

	err := g.ApplyDelta(models.CharDelta{X: 5, Y: 0, Char: 'z'})
	assert.Error(t, err)
}

func TestGrid_ApplyDelta_Region(t *testing.T) {
	g := FromText("....\n....\n....")

	err := g.ApplyDelta(models.RegionDelta{X1: 1, Y1: 0, X2: 2, Y2: 1, Rows: []string{"ab"}})
	require.NoError(t, err)
	// Missing rows and short rows fill with spaces.
	assert.Equal(t, ".ab.\n.  .\n....", g.String())
}

func TestGrid_ApplyDelta_Full(t *testing.T) {
	g := FromText("ab")

	require.NoError(t, g.ApplyDelta(models.FullDelta{Rows: []string{"xyz", "uvw"}}))
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, "xyz\nuvw", g.String())
}
