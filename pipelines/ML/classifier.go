package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

// ErrNotTrained is returned by Predict before Fit has been called.
var ErrNotTrained = errors.New("classifier has not been trained")

// TreeNode is a single node of a trained decision tree. Leaves carry a
// class and a confidence; internal nodes carry a threshold split.
type TreeNode struct {
	IsLeaf       bool           `json:"is_leaf"`
	Class        string         `json:"class,omitempty"`
	ClassCounts  map[string]int `json:"class_counts,omitempty"`
	Confidence   float64        `json:"confidence,omitempty"`
	FeatureIndex int            `json:"feature_index,omitempty"`
	Threshold    float64        `json:"threshold,omitempty"`
	Left         *TreeNode      `json:"left,omitempty"`
	Right        *TreeNode      `json:"right,omitempty"`
	SamplesCount int            `json:"samples_count"`
	Depth        int            `json:"depth"`
}

// DecisionTreeClassifier is a CART-style classifier splitting on
// information gain. Samples with feature value <= threshold go left.
type DecisionTreeClassifier struct {
	Root        *TreeNode `json:"root"`
	MaxDepth    int       `json:"max_depth"`
	Classes     []string  `json:"classes"`
	NumFeatures int       `json:"num_features"`
}

// NewDecisionTreeClassifier creates an untrained classifier. A maxDepth
// of zero or less selects the default depth of 10.
func NewDecisionTreeClassifier(maxDepth int) *DecisionTreeClassifier {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	return &DecisionTreeClassifier{MaxDepth: maxDepth}
}

// Trained reports whether Fit has produced a tree.
func (dt *DecisionTreeClassifier) Trained() bool {
	return dt.Root != nil
}

// Fit trains the tree on the given samples. Every sample must have the
// same number of features.
func (dt *DecisionTreeClassifier) Fit(features [][]float64, labels []string) error {
	if len(features) == 0 {
		return errors.New("no training samples")
	}
	if len(features) != len(labels) {
		return fmt.Errorf("feature/label length mismatch: %d vs %d", len(features), len(labels))
	}
	width := len(features[0])
	for i, row := range features {
		if len(row) != width {
			return fmt.Errorf("sample %d has %d features, want %d", i, len(row), width)
		}
	}

	dt.NumFeatures = width
	dt.Classes = uniqueStrings(labels)

	indices := make([]int, len(features))
	for i := range indices {
		indices[i] = i
	}
	dt.Root = dt.buildTree(features, labels, indices, 0)
	return nil
}

func (dt *DecisionTreeClassifier) buildTree(features [][]float64, labels []string, indices []int, depth int) *TreeNode {
	counts := countClasses(labels, indices)
	if depth >= dt.MaxDepth || len(counts) == 1 {
		return leafNode(counts, len(indices), depth)
	}

	featIdx, threshold, gain := dt.findBestSplit(features, labels, indices)
	if gain <= 0 {
		return leafNode(counts, len(indices), depth)
	}

	left, right := splitIndices(features, indices, featIdx, threshold)
	if len(left) == 0 || len(right) == 0 {
		return leafNode(counts, len(indices), depth)
	}

	return &TreeNode{
		FeatureIndex: featIdx,
		Threshold:    threshold,
		Left:         dt.buildTree(features, labels, left, depth+1),
		Right:        dt.buildTree(features, labels, right, depth+1),
		SamplesCount: len(indices),
		Depth:        depth,
	}
}

func leafNode(counts map[string]int, samples, depth int) *TreeNode {
	class, majority := majorityClass(counts)
	confidence := 0.0
	if samples > 0 {
		confidence = float64(majority) / float64(samples)
	}
	return &TreeNode{
		IsLeaf:       true,
		Class:        class,
		ClassCounts:  counts,
		Confidence:   confidence,
		SamplesCount: samples,
		Depth:        depth,
	}
}

// findBestSplit scans every feature in index order and every distinct
// observed value in ascending order, keeping the first split with the
// strictly highest information gain.
func (dt *DecisionTreeClassifier) findBestSplit(features [][]float64, labels []string, indices []int) (int, float64, float64) {
	parentEntropy := entropy(countClasses(labels, indices), len(indices))

	bestFeat, bestThreshold, bestGain := -1, 0.0, 0.0
	for feat := 0; feat < dt.NumFeatures; feat++ {
		for _, threshold := range distinctValues(features, indices, feat) {
			left, right := splitIndices(features, indices, feat, threshold)
			if len(left) == 0 || len(right) == 0 {
				continue
			}
			total := float64(len(indices))
			weighted := float64(len(left))/total*entropy(countClasses(labels, left), len(left)) +
				float64(len(right))/total*entropy(countClasses(labels, right), len(right))
			gain := parentEntropy - weighted
			if gain > bestGain {
				bestFeat, bestThreshold, bestGain = feat, threshold, gain
			}
		}
	}
	return bestFeat, bestThreshold, bestGain
}

func entropy(counts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	e := 0.0
	for _, n := range counts {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}

// Entropy returns the class entropy of a label set in bits.
func Entropy(labels []string) float64 {
	indices := make([]int, len(labels))
	for i := range indices {
		indices[i] = i
	}
	return entropy(countClasses(labels, indices), len(labels))
}

func splitIndices(features [][]float64, indices []int, feat int, threshold float64) (left, right []int) {
	for _, i := range indices {
		if features[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

func distinctValues(features [][]float64, indices []int, feat int) []float64 {
	seen := make(map[float64]struct{}, len(indices))
	for _, i := range indices {
		seen[features[i][feat]] = struct{}{}
	}
	values := make([]float64, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Float64s(values)
	return values
}

// Predict classifies one feature vector, returning the predicted class
// and the leaf's confidence.
func (dt *DecisionTreeClassifier) Predict(features []float64) (string, float64, error) {
	if !dt.Trained() {
		return "", 0, ErrNotTrained
	}
	if len(features) != dt.NumFeatures {
		return "", 0, fmt.Errorf("got %d features, want %d", len(features), dt.NumFeatures)
	}
	leaf := traverse(dt.Root, features)
	return leaf.Class, leaf.Confidence, nil
}

func traverse(node *TreeNode, features []float64) *TreeNode {
	for !node.IsLeaf {
		if features[node.FeatureIndex] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

// Depth returns the depth of the trained tree, 0 for a lone root leaf.
func (dt *DecisionTreeClassifier) Depth() int {
	return nodeDepth(dt.Root)
}

func nodeDepth(node *TreeNode) int {
	if node == nil || node.IsLeaf {
		return 0
	}
	l, r := nodeDepth(node.Left), nodeDepth(node.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// FeatureImportance returns per-feature importances weighted by the
// number of samples reaching each split, normalized to sum to 1.
func (dt *DecisionTreeClassifier) FeatureImportance() []float64 {
	importance := make([]float64, dt.NumFeatures)
	if dt.Root == nil {
		return importance
	}
	var walk func(node *TreeNode)
	walk = func(node *TreeNode) {
		if node == nil || node.IsLeaf {
			return
		}
		importance[node.FeatureIndex] += float64(node.SamplesCount)
		walk(node.Left)
		walk(node.Right)
	}
	walk(dt.Root)

	total := 0.0
	for _, v := range importance {
		total += v
	}
	if total > 0 {
		for i := range importance {
			importance[i] /= total
		}
	}
	return importance
}

// Save writes the trained tree as JSON to the given path.
func (dt *DecisionTreeClassifier) Save(path string) error {
	data, err := dt.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a tree previously written by Save.
func Load(path string) (*DecisionTreeClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return FromBytes(data)
}

// Bytes serializes the classifier as JSON.
func (dt *DecisionTreeClassifier) Bytes() ([]byte, error) {
	if !dt.Trained() {
		return nil, ErrNotTrained
	}
	return json.Marshal(dt)
}

// FromBytes deserializes a classifier written by Bytes.
func FromBytes(data []byte) (*DecisionTreeClassifier, error) {
	var dt DecisionTreeClassifier
	if err := json.Unmarshal(data, &dt); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	if dt.Root == nil {
		return nil, errors.New("model has no tree")
	}
	return &dt, nil
}

func countClasses(labels []string, indices []int) map[string]int {
	counts := make(map[string]int)
	for _, i := range indices {
		counts[labels[i]]++
	}
	return counts
}

// majorityClass breaks ties by the lexically smallest class name so that
// training is deterministic.
func majorityClass(counts map[string]int) (string, int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best, bestCount := "", -1
	for _, name := range names {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best, bestCount
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
