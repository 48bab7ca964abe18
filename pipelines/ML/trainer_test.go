package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsight/gridsight/pkg/models"
)

func separableSamples() []Sample {
	var samples []Sample
	for i := 0; i < 10; i++ {
		samples = append(samples,
			Sample{Features: []float64{float64(i), 100}, Label: "wide"},
			Sample{Features: []float64{float64(i), 1}, Label: "narrow"},
		)
	}
	return samples
}

func TestTrainer_Train(t *testing.T) {
	trainer := NewTrainer(5)

	dt, metrics, err := trainer.Train(separableSamples())
	require.NoError(t, err)
	require.True(t, dt.Trained())

	assert.Equal(t, 1.0, metrics.Accuracy, "a cleanly separable set evaluates perfectly")
	assert.Equal(t, 4, metrics.Samples, "20% of 20 samples are held out")
}

func TestTrainer_Deterministic(t *testing.T) {
	samples := separableSamples()

	first, _, err := NewTrainer(5).Train(samples)
	require.NoError(t, err)
	second, _, err := NewTrainer(5).Train(samples)
	require.NoError(t, err)

	firstBytes, err := first.Bytes()
	require.NoError(t, err)
	secondBytes, err := second.Bytes()
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes, "the same seed yields the same tree")
}

func TestTrainer_NoSamples(t *testing.T) {
	_, _, err := NewTrainer(5).Train(nil)
	assert.Error(t, err)
}

func TestTrainer_TinySetUsesFullSplit(t *testing.T) {
	samples := []Sample{
		{Features: []float64{1}, Label: "a"},
		{Features: []float64{10}, Label: "b"},
	}

	dt, metrics, err := NewTrainer(5).Train(samples)
	require.NoError(t, err)
	assert.True(t, dt.Trained())
	assert.Equal(t, 2, metrics.Samples)
}

func TestEvaluate_ConfusionAndPerClass(t *testing.T) {
	dt := NewDecisionTreeClassifier(5)
	require.NoError(t, dt.Fit([][]float64{{1}, {10}}, []string{"a", "b"}))

	samples := []Sample{
		{Features: []float64{1}, Label: "a"},
		{Features: []float64{1}, Label: "a"},
		{Features: []float64{10}, Label: "b"},
		{Features: []float64{10}, Label: "a"}, // misclassified as b
	}

	metrics, err := Evaluate(dt, samples)
	require.NoError(t, err)

	assert.InDelta(t, 0.75, metrics.Accuracy, 1e-9)
	assert.Equal(t, 2, metrics.Confusion["a"]["a"])
	assert.Equal(t, 1, metrics.Confusion["a"]["b"])
	assert.Equal(t, 1, metrics.Confusion["b"]["b"])

	a := metrics.PerClass["a"]
	assert.Equal(t, 1.0, a.Precision)
	assert.InDelta(t, 2.0/3.0, a.Recall, 1e-9)
	assert.Equal(t, 3, a.Support)

	b := metrics.PerClass["b"]
	assert.InDelta(t, 0.5, b.Precision, 1e-9)
	assert.Equal(t, 1.0, b.Recall)
}

func TestFeatureVector(t *testing.T) {
	c := models.Component{
		Bounds: models.BoundingBox{MinX: 0, MinY: 0, MaxX: 3, MaxY: 1},
		Interior: map[models.Point]struct{}{
			{X: 1, Y: 1}: {}, {X: 2, Y: 1}: {},
		},
		Boundary: map[models.Point]struct{}{
			{X: 0, Y: 0}: {}, {X: 1, Y: 0}: {}, {X: 2, Y: 0}: {},
		},
		Histogram: map[rune]int{'a': 1, 'b': 1},
	}

	v := FeatureVector(c)
	require.Len(t, v, NumComponentFeatures)
	assert.Equal(t, 4.0, v[0], "width")
	assert.Equal(t, 2.0, v[1], "height")
	assert.Equal(t, 2.0, v[2], "aspect ratio")
	assert.InDelta(t, 3.0/12.0, v[3], 1e-9, "border density")
	assert.InDelta(t, 2.0/8.0, v[4], 1e-9, "content density")
	assert.Equal(t, 2.0, v[5], "distinct characters")
}

func TestNormalizeFeatures(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 0}, NormalizeFeatures([]float64{1, 2}, 3))
	assert.Equal(t, []float64{1, 2}, NormalizeFeatures([]float64{1, 2, 3}, 2))
	same := []float64{1, 2}
	assert.Equal(t, same, NormalizeFeatures(same, 2))
}

func TestClassify(t *testing.T) {
	dt := NewDecisionTreeClassifier(5)
	features := [][]float64{
		{20, 3, 20.0 / 3.0, 0.5, 0.5, 5},
		{4, 3, 4.0 / 3.0, 0.5, 0.2, 2},
	}
	require.NoError(t, dt.Fit(features, []string{"panel", "button"}))

	wide := models.Component{ID: "w", Bounds: models.BoundingBox{MaxX: 19, MaxY: 2}}
	results, err := Classify(dt, []models.Component{wide})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "w", results[0].ComponentID)
	assert.GreaterOrEqual(t, results[0].Confidence, 0.0)
	assert.LessOrEqual(t, results[0].Confidence, 1.0)
}

func TestClassify_Untrained(t *testing.T) {
	_, err := Classify(NewDecisionTreeClassifier(5), []models.Component{{ID: "x"}})
	assert.ErrorIs(t, err, ErrNotTrained)
}
