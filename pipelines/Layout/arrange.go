package layout

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gridsight/gridsight/pkg/models"
)

const (
	// gridOccupancyRatio is the minimum observed/expected cell ratio for a
	// grid arrangement to be accepted.
	gridOccupancyRatio = 0.8
	// flowSpreadRatio caps the perpendicular center spread relative to the
	// mean extent along the flow axis.
	flowSpreadRatio = 0.5
	// flowGapStdDevRatio caps the consecutive-gap standard deviation
	// relative to the mean gap.
	flowGapStdDevRatio = 0.4
)

// gridArrangement recognizes a sparse grid of at least 4 components with at
// least 2 distinct row centers and 2 distinct column centers, requiring the
// observed count to reach gridOccupancyRatio of rows*cols. Each member is
// assigned to the nearest row/column center.
func gridArrangement(containerID string, members []models.Component) (*models.LayoutDescriptor, []models.Relationship, bool) {
	if len(members) < 4 {
		return nil, nil, false
	}

	rowCenters := clusterCenters(members, func(c models.Component) int { return c.Bounds.CenterY() })
	colCenters := clusterCenters(members, func(c models.Component) int { return c.Bounds.CenterX() })
	if len(rowCenters) < 2 || len(colCenters) < 2 {
		return nil, nil, false
	}

	expected := len(rowCenters) * len(colCenters)
	if float64(len(members)) < gridOccupancyRatio*float64(expected) {
		return nil, nil, false
	}

	desc := &models.LayoutDescriptor{
		ContainerID: containerID,
		Kind:        models.LayoutGrid,
		Rows:        len(rowCenters),
		Cols:        len(colCenters),
		Cells:       make(map[models.Cell]string, len(members)),
	}
	var rels []models.Relationship
	for _, c := range members {
		cell := models.Cell{
			Row: nearestIndex(rowCenters, c.Bounds.CenterY()),
			Col: nearestIndex(colCenters, c.Bounds.CenterX()),
		}
		if _, taken := desc.Cells[cell]; !taken {
			desc.Cells[cell] = c.ID
		}
		if containerID != "" {
			rels = append(rels, models.Relationship{
				SourceID: containerID,
				TargetID: c.ID,
				Kind:     models.GridCell,
			})
		}
	}
	return desc, rels, true
}

func nearestIndex(centers []int, value int) int {
	best := 0
	bestDist := -1
	for i, c := range centers {
		d := c - value
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// flowArrangement tries a horizontal then a vertical flow over the group.
// A container receives at most one flow descriptor.
func flowArrangement(containerID string, members []models.Component) (*models.LayoutDescriptor, []models.Relationship, bool) {
	if len(members) < 2 {
		return nil, nil, false
	}
	for _, dir := range []models.FlowDirection{models.FlowHorizontal, models.FlowVertical} {
		if desc, rels, ok := flowAlong(containerID, members, dir); ok {
			return desc, rels, true
		}
	}
	return nil, nil, false
}

func flowAlong(containerID string, members []models.Component, dir models.FlowDirection) (*models.LayoutDescriptor, []models.Relationship, bool) {
	sorted := make([]models.Component, len(members))
	copy(sorted, members)

	lead := func(c models.Component) float64 { return float64(c.Bounds.CenterX()) }
	perp := func(c models.Component) float64 { return float64(c.Bounds.CenterY()) }
	extent := func(c models.Component) float64 { return float64(c.Bounds.Width()) }
	if dir == models.FlowVertical {
		lead, perp = perp, lead
		extent = func(c models.Component) float64 { return float64(c.Bounds.Height()) }
	}
	sortByKey(sorted, lead)

	extents := make([]float64, len(sorted))
	perps := make([]float64, len(sorted))
	for i, c := range sorted {
		extents[i] = extent(c)
		perps[i] = perp(c)
	}
	minPerp, maxPerp := perps[0], perps[0]
	for _, p := range perps[1:] {
		if p < minPerp {
			minPerp = p
		}
		if p > maxPerp {
			maxPerp = p
		}
	}
	meanExtent := stat.Mean(extents, nil)
	if maxPerp-minPerp > flowSpreadRatio*meanExtent {
		return nil, nil, false
	}

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, lead(sorted[i])-lead(sorted[i-1]))
	}
	meanGap := stat.Mean(gaps, nil)
	if meanGap <= 0 {
		return nil, nil, false
	}
	if len(gaps) > 1 && stat.StdDev(gaps, nil) > flowGapStdDevRatio*meanGap {
		return nil, nil, false
	}

	desc := &models.LayoutDescriptor{
		ContainerID: containerID,
		Kind:        models.LayoutFlow,
		Direction:   dir,
		MeanSpacing: meanGap,
	}
	var rels []models.Relationship
	for _, c := range sorted {
		desc.Members = append(desc.Members, c.ID)
		if containerID != "" {
			rels = append(rels, models.Relationship{
				SourceID: containerID,
				TargetID: c.ID,
				Kind:     models.FlowMember,
			})
		}
	}
	return desc, rels, true
}

func sortByKey(components []models.Component, key func(models.Component) float64) {
	sort.SliceStable(components, func(i, j int) bool {
		return key(components[i]) < key(components[j])
	})
}
