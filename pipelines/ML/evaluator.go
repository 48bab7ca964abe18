package ml

import "errors"

// ClassMetrics holds precision and recall for one class.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	Support   int     `json:"support"`
}

// Metrics summarizes classifier quality on a labeled sample set.
type Metrics struct {
	Accuracy  float64                   `json:"accuracy"`
	PerClass  map[string]ClassMetrics   `json:"per_class"`
	Confusion map[string]map[string]int `json:"confusion"`
	Samples   int                       `json:"samples"`
}

// Evaluate runs the classifier over every sample and accumulates
// accuracy, per-class precision/recall and a confusion matrix keyed
// actual label then predicted label.
func Evaluate(dt *DecisionTreeClassifier, samples []Sample) (*Metrics, error) {
	if len(samples) == 0 {
		return nil, errors.New("no evaluation samples")
	}

	confusion := make(map[string]map[string]int)
	correct := 0
	for _, s := range samples {
		predicted, _, err := dt.Predict(NormalizeFeatures(s.Features, dt.NumFeatures))
		if err != nil {
			return nil, err
		}
		row := confusion[s.Label]
		if row == nil {
			row = make(map[string]int)
			confusion[s.Label] = row
		}
		row[predicted]++
		if predicted == s.Label {
			correct++
		}
	}

	perClass := make(map[string]ClassMetrics)
	classes := make(map[string]struct{})
	for actual, row := range confusion {
		classes[actual] = struct{}{}
		for predicted := range row {
			classes[predicted] = struct{}{}
		}
	}
	for class := range classes {
		truePos := confusion[class][class]
		support := 0
		for _, n := range confusion[class] {
			support += n
		}
		predictedAs := 0
		for _, row := range confusion {
			predictedAs += row[class]
		}

		m := ClassMetrics{Support: support}
		if predictedAs > 0 {
			m.Precision = float64(truePos) / float64(predictedAs)
		}
		if support > 0 {
			m.Recall = float64(truePos) / float64(support)
		}
		perClass[class] = m
	}

	return &Metrics{
		Accuracy:  float64(correct) / float64(len(samples)),
		PerClass:  perClass,
		Confusion: confusion,
		Samples:   len(samples),
	}, nil
}
