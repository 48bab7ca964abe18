package recognition

import (
	"fmt"

	"github.com/gridsight/gridsight/pipelines"
	layout "github.com/gridsight/gridsight/pipelines/Layout"
)

// LayoutStage derives spatial relationships and container arrangements
// from the detected components.
type LayoutStage struct{}

// NewLayoutStage creates a layout analysis stage.
func NewLayoutStage() *LayoutStage { return &LayoutStage{} }

func (s *LayoutStage) Name() string { return StageLayout }

func (s *LayoutStage) Execute(data pipelines.StageValue, _ *pipelines.RecognizerContext) (pipelines.StageValue, error) {
	components, ok := data.(pipelines.ComponentsValue)
	if !ok {
		return nil, fmt.Errorf("unsupported input type %q", valueType(data))
	}
	rels, layouts := layout.Analyze(components.Components)
	return pipelines.LayoutValue{Relationships: rels, Layouts: layouts}, nil
}
