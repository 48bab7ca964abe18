package region

import (
	"regexp"
	"strings"

	grid "github.com/gridsight/gridsight/pipelines/Grid"
	"github.com/gridsight/gridsight/pkg/models"
)

// Boundary glyph families. A region is tagged with a family only when its
// whole boundary character set is contained in that family; otherwise it is
// tagged custom. Single-line includes the ASCII approximations.
var boxFamilies = []struct {
	style  models.BoxStyle
	glyphs string
}{
	{models.SingleLineBox, "+-|─│┌┐└┘├┤┬┴┼"},
	{models.DoubleLineBox, "═║╔╗╚╝╠╣╦╩╬"},
	{models.HeavyLineBox, "━┃┏┓┗┛┣┫┳┻╋"},
	{models.RoundedBox, "╭╮╰╯─│"},
}

var buttonTextPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Indicator glyphs recognized inside a region's content.
const (
	glyphFilledCircle  = '●'
	glyphEmptyCircle   = '○'
	glyphExpandArrow   = '▶'
	glyphCollapseArrow = '▼'
	glyphCheckedBox    = '☑'
	glyphUncheckedBox  = '☐'
)

// deriveFeatures fills in the component's box style and special-feature
// flags from its boundary glyphs and interior content.
func deriveFeatures(c *models.Component, g *grid.Grid) {
	c.BoxStyle = classifyBoxStyle(c, g)
	c.Features = scanContent(c, g)
}

func classifyBoxStyle(c *models.Component, g *grid.Grid) models.BoxStyle {
	if len(c.Boundary) == 0 {
		return models.CustomBox
	}
	seen := make(map[rune]struct{})
	for p := range c.Boundary {
		if ch, ok := g.Get(p.X, p.Y); ok {
			seen[ch] = struct{}{}
		}
	}
	for _, fam := range boxFamilies {
		contained := true
		for ch := range seen {
			if !strings.ContainsRune(fam.glyphs, ch) {
				contained = false
				break
			}
		}
		if contained {
			return fam.style
		}
	}
	return models.CustomBox
}

func scanContent(c *models.Component, g *grid.Grid) models.SpecialFeatures {
	var f models.SpecialFeatures

	content := strings.Join(c.InteriorRows(g.Get), "\n")
	for _, m := range buttonTextPattern.FindAllStringSubmatch(content, -1) {
		f.ButtonTexts = append(f.ButtonTexts, strings.TrimSpace(m[1]))
	}
	f.IsButton = len(f.ButtonTexts) > 0

	for ch := range c.Histogram {
		switch ch {
		case glyphFilledCircle:
			f.HasFilledCircle = true
		case glyphEmptyCircle:
			f.HasEmptyCircle = true
		case glyphExpandArrow:
			f.HasExpandArrow = true
		case glyphCollapseArrow:
			f.HasCollapseArrow = true
		case glyphCheckedBox:
			f.HasCheckedBox = true
		case glyphUncheckedBox:
			f.HasUncheckedBox = true
		}
	}
	return f
}
