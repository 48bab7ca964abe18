package models

// RelationKind identifies a spatial relationship between two components.
// The set is closed; downstream consumers switch over it exhaustively.
type RelationKind string

const (
	AlignsHorizontally RelationKind = "aligns_horizontally"
	AlignsVertically   RelationKind = "aligns_vertically"
	Contains           RelationKind = "contains"
	FlowMember         RelationKind = "flow_member"
	GridCell           RelationKind = "grid_cell"
)

// Relationship is a directed edge between two recognized components.
type Relationship struct {
	SourceID string       `json:"source_id"`
	TargetID string       `json:"target_id"`
	Kind     RelationKind `json:"kind"`
}

// LayoutKind identifies the arrangement recognized inside a container.
type LayoutKind string

const (
	LayoutGrid LayoutKind = "grid"
	LayoutFlow LayoutKind = "flow"
	LayoutNone LayoutKind = "none"
)

// FlowDirection is the axis a flow arrangement runs along.
type FlowDirection string

const (
	FlowHorizontal FlowDirection = "horizontal"
	FlowVertical   FlowDirection = "vertical"
)

// Cell addresses one slot of a grid arrangement.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// LayoutDescriptor describes the arrangement of a container's direct
// children. A grid descriptor has at least 2 distinct rows and columns;
// a flow descriptor has at least 2 members. ContainerID is empty for the
// implicit root container.
type LayoutDescriptor struct {
	ContainerID string     `json:"container_id"`
	Kind        LayoutKind `json:"kind"`

	// Grid arrangement.
	Rows  int             `json:"rows,omitempty"`
	Cols  int             `json:"cols,omitempty"`
	Cells map[Cell]string `json:"-"`

	// Flow arrangement.
	Direction   FlowDirection `json:"direction,omitempty"`
	Members     []string      `json:"members,omitempty"`
	MeanSpacing float64       `json:"mean_spacing,omitempty"`
}

// ClassificationResult labels one component with a predicted type.
// Confidence is in [0,1].
type ClassificationResult struct {
	ComponentID string  `json:"component_id"`
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
}
