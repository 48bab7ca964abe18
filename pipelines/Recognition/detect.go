// Package recognition adapts the grid, region, pattern, layout and ml
// packages into pipeline stages and wires them into a runnable
// recognition pipeline.
package recognition

import (
	"fmt"
	"strings"

	"github.com/gridsight/gridsight/pipelines"
	grid "github.com/gridsight/gridsight/pipelines/Grid"
	region "github.com/gridsight/gridsight/pipelines/Region"
	"github.com/gridsight/gridsight/pkg/models"
)

// Stage names in run order.
const (
	StageDetect   = "detect"
	StageMatch    = "match"
	StageLayout   = "layout"
	StageClassify = "classify"
)

// DetectStage turns raw text into detected components. It caches the
// parsed grid in the context so later incremental runs can patch it
// instead of reparsing.
type DetectStage struct {
	Options region.Options
}

// NewDetectStage creates a detection stage with default options.
func NewDetectStage() *DetectStage {
	return &DetectStage{Options: region.DefaultOptions()}
}

func (s *DetectStage) Name() string { return StageDetect }

// Execute parses the input into a grid, caches it, and runs full
// detection plus adjacency merging.
func (s *DetectStage) Execute(data pipelines.StageValue, rc *pipelines.RecognizerContext) (pipelines.StageValue, error) {
	var g *grid.Grid
	switch v := data.(type) {
	case pipelines.TextValue:
		g = grid.FromText(v.Text)
	case pipelines.GridValue:
		if v.Grid == nil {
			return nil, fmt.Errorf("nil grid input")
		}
		g = v.Grid.Clone()
	default:
		return nil, fmt.Errorf("unsupported input type %q", valueType(data))
	}

	rc.Set(pipelines.ContextKeyLastGrid, pipelines.GridValue{Grid: g})
	components := region.MergeAdjacent(region.Detect(g, s.Options), g)
	return pipelines.ComponentsValue{Components: components}, nil
}

// ExecuteIncremental patches the cached grid with the delta and
// re-detects only the dirty window, splicing the fresh components with
// the untouched ones from the previous run. A full delta, or a run with
// no previous detection output, falls back to full detection.
func (s *DetectStage) ExecuteIncremental(delta models.GridDelta, _ pipelines.StageValue, rc *pipelines.RecognizerContext) (pipelines.StageValue, models.GridDelta, error) {
	cached, ok := rc.Get(pipelines.ContextKeyLastGrid)
	if !ok {
		return nil, nil, pipelines.ErrNoCachedGrid
	}
	gv, ok := cached.(pipelines.GridValue)
	if !ok || gv.Grid == nil {
		return nil, nil, pipelines.ErrNoCachedGrid
	}
	g := gv.Grid
	if err := g.ApplyDelta(delta); err != nil {
		return nil, nil, fmt.Errorf("applying delta: %w", err)
	}

	// An edit that writes boundary glyphs can close off an enclosure far
	// larger than the edited cells, so only content-level edits take the
	// windowed path.
	dirty, partial := deltaBounds(delta)
	if partial && writesBoundary(delta, s.Options.BoundaryChars) {
		partial = false
	}
	prev, havePrev := previousComponents(rc)
	if !partial || !havePrev {
		out, err := s.Execute(pipelines.GridValue{Grid: g}, rc)
		if err != nil {
			return nil, nil, err
		}
		return out, models.FullDelta{Rows: g.Rows()}, nil
	}

	// Untouched components survive as-is; anything overlapping the dirty
	// window (grown by one so adjacency with new regions is seen) gets
	// re-detected from the patched grid.
	window := dirty.Expand(1)
	touched := make([]bool, len(prev))
	for grew := true; grew; {
		grew = false
		for i, c := range prev {
			if touched[i] || !c.Bounds.Overlaps(window) {
				continue
			}
			touched[i] = true
			window = window.Union(c.Bounds)
			grew = true
		}
	}
	var kept []models.Component
	for i, c := range prev {
		if !touched[i] {
			kept = append(kept, c)
		}
	}

	fresh := detectWindow(g, window, s.Options)
	merged := region.MergeAdjacent(append(kept, fresh...), g)
	return pipelines.ComponentsValue{Components: merged}, delta, nil
}

// detectWindow runs detection on a clipped sub-grid and translates the
// resulting components back into full-grid coordinates.
func detectWindow(g *grid.Grid, window models.BoundingBox, opts region.Options) []models.Component {
	x1, y1 := window.MinX, window.MinY
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	sub := g.Sub(x1, y1, window.MaxX-x1+1, window.MaxY-y1+1)
	components := region.Detect(sub, opts)
	for i := range components {
		translate(&components[i], x1, y1)
	}
	return components
}

func translate(c *models.Component, dx, dy int) {
	interior := make(map[models.Point]struct{}, len(c.Interior))
	for p := range c.Interior {
		interior[models.Point{X: p.X + dx, Y: p.Y + dy}] = struct{}{}
	}
	boundary := make(map[models.Point]struct{}, len(c.Boundary))
	for p := range c.Boundary {
		boundary[models.Point{X: p.X + dx, Y: p.Y + dy}] = struct{}{}
	}
	c.Interior = interior
	c.Boundary = boundary
	c.RecomputeBounds()
}

func writesBoundary(d models.GridDelta, boundaryChars string) bool {
	switch v := d.(type) {
	case models.CharDelta:
		return strings.ContainsRune(boundaryChars, v.Char)
	case models.RegionDelta:
		for _, row := range v.Rows {
			if strings.ContainsAny(row, boundaryChars) {
				return true
			}
		}
	}
	return false
}

func deltaBounds(d models.GridDelta) (models.BoundingBox, bool) {
	switch v := d.(type) {
	case models.CharDelta:
		return models.BoundingBox{MinX: v.X, MinY: v.Y, MaxX: v.X, MaxY: v.Y}, true
	case models.RegionDelta:
		return v.Bounds(), true
	default:
		return models.BoundingBox{}, false
	}
}

// valueType names a stage value for error messages, tolerating nil.
func valueType(v pipelines.StageValue) string {
	if v == nil {
		return "nil"
	}
	return v.Type()
}

func previousComponents(rc *pipelines.RecognizerContext) ([]models.Component, bool) {
	v, ok := rc.Get(StageDetect)
	if !ok {
		return nil, false
	}
	cv, ok := v.(pipelines.ComponentsValue)
	if !ok {
		return nil, false
	}
	return cv.Components, true
}
