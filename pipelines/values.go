package pipelines

import (
	grid "github.com/gridsight/gridsight/pipelines/Grid"
	"github.com/gridsight/gridsight/pkg/models"
)

// StageValue is a typed value stored in a RecognizerContext. Clone must
// return a copy deep enough that stages cannot mutate each other's
// outputs through shared state.
type StageValue interface {
	Type() string
	Clone() StageValue
}

// GridValue carries a character grid between stages.
type GridValue struct {
	Grid *grid.Grid
}

func (v GridValue) Type() string { return "grid" }

func (v GridValue) Clone() StageValue {
	if v.Grid == nil {
		return GridValue{}
	}
	return GridValue{Grid: v.Grid.Clone()}
}

// ComponentsValue carries detected components between stages.
type ComponentsValue struct {
	Components []models.Component
}

func (v ComponentsValue) Type() string { return "components" }

func (v ComponentsValue) Clone() StageValue {
	out := make([]models.Component, len(v.Components))
	copy(out, v.Components)
	return ComponentsValue{Components: out}
}

// LayoutValue carries layout analysis output between stages.
type LayoutValue struct {
	Relationships []models.Relationship
	Layouts       []models.LayoutDescriptor
}

func (v LayoutValue) Type() string { return "layout" }

func (v LayoutValue) Clone() StageValue {
	rels := make([]models.Relationship, len(v.Relationships))
	copy(rels, v.Relationships)
	layouts := make([]models.LayoutDescriptor, len(v.Layouts))
	copy(layouts, v.Layouts)
	return LayoutValue{Relationships: rels, Layouts: layouts}
}

// ClassificationsValue carries per-component predictions between stages.
type ClassificationsValue struct {
	Results []models.ClassificationResult
}

func (v ClassificationsValue) Type() string { return "classifications" }

func (v ClassificationsValue) Clone() StageValue {
	out := make([]models.ClassificationResult, len(v.Results))
	copy(out, v.Results)
	return ClassificationsValue{Results: out}
}

// TextValue carries raw text, typically the pipeline input.
type TextValue struct {
	Text string
}

func (v TextValue) Type() string { return "text" }

func (v TextValue) Clone() StageValue { return v }
