package models

// DeltaKind tags the three supported grid edit shapes.
type DeltaKind string

const (
	DeltaChar   DeltaKind = "char"
	DeltaRegion DeltaKind = "region"
	DeltaFull   DeltaKind = "full"
)

// GridDelta is a localized description of a grid edit used by incremental
// pipeline runs.
type GridDelta interface {
	Kind() DeltaKind
}

// CharDelta replaces a single character.
type CharDelta struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Char rune `json:"char"`
}

func (CharDelta) Kind() DeltaKind { return DeltaChar }

// RegionDelta replaces the rectangle (X1,Y1)-(X2,Y2) inclusive with Rows.
type RegionDelta struct {
	X1   int      `json:"x1"`
	Y1   int      `json:"y1"`
	X2   int      `json:"x2"`
	Y2   int      `json:"y2"`
	Rows []string `json:"rows"`
}

func (RegionDelta) Kind() DeltaKind { return DeltaRegion }

// Bounds returns the delta's target rectangle as a bounding box.
func (d RegionDelta) Bounds() BoundingBox {
	return BoundingBox{MinX: d.X1, MinY: d.Y1, MaxX: d.X2, MaxY: d.Y2}
}

// FullDelta replaces the entire grid.
type FullDelta struct {
	Rows []string `json:"rows"`
}

func (FullDelta) Kind() DeltaKind { return DeltaFull }
