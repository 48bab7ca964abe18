// Package layout infers spatial relationships between recognized
// components: containment, alignment, grid arrangements and flow
// arrangements within each container.
package layout

import (
	"sort"

	"github.com/gridsight/gridsight/pkg/models"
)

// AlignmentTolerance is the coordinate slack used when grouping component
// centers as aligned.
const AlignmentTolerance = 2

// Analyze computes containment first, groups components by their direct
// container, and runs the alignment, grid and flow analyses per group.
func Analyze(components []models.Component) ([]models.Relationship, []models.LayoutDescriptor) {
	if len(components) == 0 {
		return nil, nil
	}

	ordered := make([]models.Component, len(components))
	copy(ordered, components)
	sortReadingOrder(ordered)

	var rels []models.Relationship
	var descs []models.LayoutDescriptor

	containerOf := directContainers(ordered)
	for i := range ordered {
		if parent := containerOf[ordered[i].ID]; parent != "" {
			rels = append(rels, models.Relationship{
				SourceID: parent,
				TargetID: ordered[i].ID,
				Kind:     models.Contains,
			})
		}
	}

	for _, group := range groupByContainer(ordered, containerOf) {
		rels = append(rels, alignmentEdges(group.members)...)

		if desc, cellRels, ok := gridArrangement(group.containerID, group.members); ok {
			descs = append(descs, *desc)
			rels = append(rels, cellRels...)
			continue
		}
		if desc, flowRels, ok := flowArrangement(group.containerID, group.members); ok {
			descs = append(descs, *desc)
			rels = append(rels, flowRels...)
		}
	}
	return rels, descs
}

// directContainers maps each component id to the id of its direct (smallest
// enclosing) container, or "" when it has none. O(n^2) pairwise test.
func directContainers(components []models.Component) map[string]string {
	out := make(map[string]string, len(components))
	for i := range components {
		bestArea := 0
		bestID := ""
		for j := range components {
			if i == j {
				continue
			}
			if !components[j].Bounds.Encloses(components[i].Bounds) {
				continue
			}
			area := components[j].Bounds.Area()
			if bestID == "" || area < bestArea {
				bestID = components[j].ID
				bestArea = area
			}
		}
		out[components[i].ID] = bestID
	}
	return out
}

type containerGroup struct {
	containerID string
	members     []models.Component
}

// groupByContainer partitions components by direct container, preserving
// reading order inside each group and ordering groups deterministically by
// the first member encountered.
func groupByContainer(ordered []models.Component, containerOf map[string]string) []containerGroup {
	index := make(map[string]int)
	var groups []containerGroup
	for _, c := range ordered {
		parent := containerOf[c.ID]
		i, ok := index[parent]
		if !ok {
			i = len(groups)
			index[parent] = i
			groups = append(groups, containerGroup{containerID: parent})
		}
		groups[i].members = append(groups[i].members, c)
	}
	return groups
}

func sortReadingOrder(components []models.Component) {
	sort.SliceStable(components, func(i, j int) bool {
		if components[i].Bounds.MinY != components[j].Bounds.MinY {
			return components[i].Bounds.MinY < components[j].Bounds.MinY
		}
		return components[i].Bounds.MinX < components[j].Bounds.MinX
	})
}

// alignmentEdges buckets group members by rounded vertical center for
// horizontal alignment and by horizontal center for vertical alignment.
// Each bucket with at least two members yields star edges from its first
// member, in reading order, to each other member.
func alignmentEdges(members []models.Component) []models.Relationship {
	var rels []models.Relationship
	for _, bucket := range clusterBy(members, func(c models.Component) int { return c.Bounds.CenterY() }) {
		rels = append(rels, starEdges(bucket, models.AlignsHorizontally)...)
	}
	for _, bucket := range clusterBy(members, func(c models.Component) int { return c.Bounds.CenterX() }) {
		rels = append(rels, starEdges(bucket, models.AlignsVertically)...)
	}
	return rels
}

func starEdges(bucket []models.Component, kind models.RelationKind) []models.Relationship {
	if len(bucket) < 2 {
		return nil
	}
	sortReadingOrder(bucket)
	first := bucket[0]
	rels := make([]models.Relationship, 0, len(bucket)-1)
	for _, other := range bucket[1:] {
		rels = append(rels, models.Relationship{
			SourceID: first.ID,
			TargetID: other.ID,
			Kind:     kind,
		})
	}
	return rels
}

// clusterBy sorts members by the keyed center and starts a new bucket
// whenever a center is more than AlignmentTolerance away from the bucket's
// first center.
func clusterBy(members []models.Component, key func(models.Component) int) [][]models.Component {
	sorted := make([]models.Component, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) < key(sorted[j]) })

	var buckets [][]models.Component
	for _, c := range sorted {
		if len(buckets) > 0 {
			bucket := buckets[len(buckets)-1]
			if key(c)-key(bucket[0]) <= AlignmentTolerance {
				buckets[len(buckets)-1] = append(bucket, c)
				continue
			}
		}
		buckets = append(buckets, []models.Component{c})
	}
	return buckets
}

// clusterCenters returns the representative center of each bucket.
func clusterCenters(members []models.Component, key func(models.Component) int) []int {
	buckets := clusterBy(members, key)
	centers := make([]int, len(buckets))
	for i, bucket := range buckets {
		sum := 0
		for _, c := range bucket {
			sum += key(c)
		}
		centers[i] = sum / len(bucket)
	}
	return centers
}
