package recognition

import (
	"fmt"

	"github.com/gridsight/gridsight/pipelines"
	pattern "github.com/gridsight/gridsight/pipelines/Pattern"
)

// ContextKeyPatterns holds the MatchStage's repeating-pattern groups.
const ContextKeyPatterns = "patterns"

// PatternsValue carries repeating-pattern groups keyed by their
// canonical window rendering.
type PatternsValue struct {
	Groups map[string][]pattern.Match
}

func (v PatternsValue) Type() string { return "patterns" }

func (v PatternsValue) Clone() pipelines.StageValue {
	out := make(map[string][]pattern.Match, len(v.Groups))
	for k, matches := range v.Groups {
		copied := make([]pattern.Match, len(matches))
		copy(copied, matches)
		out[k] = copied
	}
	return PatternsValue{Groups: out}
}

// MatchStage scans the cached grid for repeating sub-patterns. Its
// findings go into the context under ContextKeyPatterns; the component
// list passes through untouched for the layout stage.
type MatchStage struct {
	MinSize int
	MaxSize int
}

// NewMatchStage creates a match stage scanning 3x3 through 8x8 windows.
func NewMatchStage() *MatchStage {
	return &MatchStage{MinSize: 3, MaxSize: 8}
}

func (s *MatchStage) Name() string { return StageMatch }

func (s *MatchStage) Execute(data pipelines.StageValue, rc *pipelines.RecognizerContext) (pipelines.StageValue, error) {
	components, ok := data.(pipelines.ComponentsValue)
	if !ok {
		return nil, fmt.Errorf("unsupported input type %q", valueType(data))
	}

	cached, ok := rc.Get(pipelines.ContextKeyLastGrid)
	if !ok {
		return nil, fmt.Errorf("no cached grid for pattern matching")
	}
	gv, ok := cached.(pipelines.GridValue)
	if !ok || gv.Grid == nil {
		return nil, fmt.Errorf("no cached grid for pattern matching")
	}

	groups := pattern.FindRepeating(gv.Grid, s.MinSize, s.MaxSize)
	rc.Set(ContextKeyPatterns, PatternsValue{Groups: groups})
	return components, nil
}
