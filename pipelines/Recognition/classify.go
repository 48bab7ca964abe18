package recognition

import (
	"fmt"

	"github.com/gridsight/gridsight/pipelines"
	ml "github.com/gridsight/gridsight/pipelines/ML"
)

// ClassifyStage labels every detected component with a trained decision
// tree. It reads the component list from the detection stage's context
// entry so it can run after the layout stage without re-threading the
// components through it.
type ClassifyStage struct {
	Classifier *ml.DecisionTreeClassifier
}

// NewClassifyStage creates a classification stage around a classifier,
// which may still be untrained at construction time.
func NewClassifyStage(classifier *ml.DecisionTreeClassifier) *ClassifyStage {
	return &ClassifyStage{Classifier: classifier}
}

func (s *ClassifyStage) Name() string { return StageClassify }

func (s *ClassifyStage) Execute(_ pipelines.StageValue, rc *pipelines.RecognizerContext) (pipelines.StageValue, error) {
	if s.Classifier == nil || !s.Classifier.Trained() {
		return nil, ml.ErrNotTrained
	}
	components, ok := previousComponents(rc)
	if !ok {
		return nil, fmt.Errorf("no detection output to classify")
	}
	results, err := ml.Classify(s.Classifier, components)
	if err != nil {
		return nil, err
	}
	return pipelines.ClassificationsValue{Results: results}, nil
}
