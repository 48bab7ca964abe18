package ml

import (
	"errors"
	"fmt"
	"math/rand"
)

// Sample is one labeled training example.
type Sample struct {
	Features []float64 `json:"features"`
	Label    string    `json:"label"`
}

// Trainer fits a classifier on labeled samples with a held-out split.
type Trainer struct {
	MaxDepth  int
	TestRatio float64
	Seed      int64
}

// NewTrainer returns a trainer with a 20% held-out split.
func NewTrainer(maxDepth int) *Trainer {
	return &Trainer{MaxDepth: maxDepth, TestRatio: 0.2, Seed: 1}
}

// Train shuffles the samples, splits off a test set, fits a tree on the
// remainder and evaluates it on the held-out samples. With too few
// samples for a split the full set is used for both.
func (t *Trainer) Train(samples []Sample) (*DecisionTreeClassifier, *Metrics, error) {
	if len(samples) == 0 {
		return nil, nil, errors.New("no training samples")
	}

	shuffled := make([]Sample, len(samples))
	copy(shuffled, samples)
	rng := rand.New(rand.NewSource(t.Seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(float64(len(shuffled)) * t.TestRatio)
	train, test := shuffled, shuffled
	if testSize > 0 && len(shuffled)-testSize > 0 {
		train = shuffled[testSize:]
		test = shuffled[:testSize]
	}

	features := make([][]float64, len(train))
	labels := make([]string, len(train))
	for i, s := range train {
		features[i] = s.Features
		labels[i] = s.Label
	}

	dt := NewDecisionTreeClassifier(t.MaxDepth)
	if err := dt.Fit(features, labels); err != nil {
		return nil, nil, fmt.Errorf("fitting tree: %w", err)
	}

	metrics, err := Evaluate(dt, test)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluating tree: %w", err)
	}
	return dt, metrics, nil
}
