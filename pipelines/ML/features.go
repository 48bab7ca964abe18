package ml

import (
	"github.com/gridsight/gridsight/pkg/models"
)

// NumComponentFeatures is the width of the vectors FeatureVector emits.
const NumComponentFeatures = 6

// FeatureVector converts a recognized component into the numeric
// features the classifier is trained on: width, height, aspect ratio,
// boundary density, interior density and distinct character count.
func FeatureVector(c models.Component) []float64 {
	width := float64(c.Bounds.Width())
	height := float64(c.Bounds.Height())
	area := width * height

	aspect := 0.0
	if height > 0 {
		aspect = width / height
	}
	perimeter := 2 * (width + height)
	borderDensity := 0.0
	if perimeter > 0 {
		borderDensity = float64(len(c.Boundary)) / perimeter
	}
	contentDensity := 0.0
	if area > 0 {
		contentDensity = float64(len(c.Interior)) / area
	}

	return []float64{
		width,
		height,
		aspect,
		borderDensity,
		contentDensity,
		float64(len(c.Histogram)),
	}
}

// NormalizeFeatures pads or truncates a vector to the given width so
// models trained on older feature sets still accept it.
func NormalizeFeatures(features []float64, width int) []float64 {
	if len(features) == width {
		return features
	}
	out := make([]float64, width)
	copy(out, features)
	return out
}

// Classify predicts a label for every component. The classifier must be
// trained; the first prediction error aborts the batch.
func Classify(dt *DecisionTreeClassifier, components []models.Component) ([]models.ClassificationResult, error) {
	results := make([]models.ClassificationResult, 0, len(components))
	for _, c := range components {
		features := NormalizeFeatures(FeatureVector(c), dt.NumFeatures)
		label, confidence, err := dt.Predict(features)
		if err != nil {
			return nil, err
		}
		results = append(results, models.ClassificationResult{
			ComponentID: c.ID,
			Label:       label,
			Confidence:  confidence,
		})
	}
	return results, nil
}
