package utils

import (
	"fmt"

	"github.com/gridsight/gridsight/pipelines"
	ml "github.com/gridsight/gridsight/pipelines/ML"
	pattern "github.com/gridsight/gridsight/pipelines/Pattern"
	recognition "github.com/gridsight/gridsight/pipelines/Recognition"
	region "github.com/gridsight/gridsight/pipelines/Region"
	"github.com/gridsight/gridsight/pkg/models"
)

// Result bundles the outputs of one recognition run.
type Result struct {
	Components      []models.Component
	Relationships   []models.Relationship
	Layouts         []models.LayoutDescriptor
	Classifications []models.ClassificationResult
	Patterns        map[string][]pattern.Match
}

// Recognizer owns a configured pipeline and the context it reuses
// across runs, so incremental updates can patch the cached grid.
type Recognizer struct {
	pipeline *pipelines.Pipeline
	context  *pipelines.RecognizerContext
	monitor  *StageMonitor
	logger   *Logger
}

// NewRecognizer assembles the full detect/match/layout/classify
// pipeline from a configuration. The classifier may be untrained; runs
// then fail in the classify stage until it is fitted or replaced.
func NewRecognizer(config *Config, classifier *ml.DecisionTreeClassifier) *Recognizer {
	if config == nil {
		config = DefaultConfig()
	}
	logger := GetLogger()
	config.ConfigureLogger(logger)

	detect := recognition.NewDetectStage()
	if config.Detection.BoundaryChars != "" {
		detect.Options.BoundaryChars = config.Detection.BoundaryChars
	} else {
		detect.Options.BoundaryChars = region.DefaultBoundaryChars
	}
	detect.Options.IgnoreChars = config.Detection.IgnoreChars
	detect.Options.MinSize = config.Detection.MinRegionSize

	match := recognition.NewMatchStage()
	match.MinSize = config.Matching.MinPatternSize
	match.MaxSize = config.Matching.MaxPatternSize

	if classifier == nil {
		classifier = ml.NewDecisionTreeClassifier(config.Classifier.MaxDepth)
	}

	p := pipelines.New()
	p.Register(detect)
	p.Register(match)
	p.Register(recognition.NewLayoutStage())
	p.Register(recognition.NewClassifyStage(classifier))

	monitor := NewStageMonitor(logger)
	p.RegisterMonitor("", monitor)

	return &Recognizer{
		pipeline: p,
		context:  pipelines.NewRecognizerContext(),
		monitor:  monitor,
		logger:   logger,
	}
}

// Pipeline exposes the underlying pipeline so callers can install
// error handlers or extra monitors.
func (r *Recognizer) Pipeline() *pipelines.Pipeline {
	return r.pipeline
}

// Monitor returns the per-stage statistics collector.
func (r *Recognizer) Monitor() *StageMonitor {
	return r.monitor
}

// Recognize runs the full pipeline over a text mockup.
func (r *Recognizer) Recognize(text string) (*Result, error) {
	r.logger.Info("recognition run started", Int("input_bytes", len(text)))
	if _, _, err := r.pipeline.Run(pipelines.TextValue{Text: text}, r.context); err != nil {
		return nil, err
	}
	return r.collect()
}

// RecognizeIncremental re-runs the pipeline from a grid delta against
// the grid cached by a previous Recognize call.
func (r *Recognizer) RecognizeIncremental(delta models.GridDelta) (*Result, error) {
	r.logger.Info("incremental run started", String("delta", string(delta.Kind())))
	if _, err := r.pipeline.RunIncremental(delta, r.context); err != nil {
		return nil, err
	}
	return r.collect()
}

// Reset drops all cached state, forcing the next run to start fresh.
func (r *Recognizer) Reset() {
	r.context = pipelines.NewRecognizerContext()
}

func (r *Recognizer) collect() (*Result, error) {
	result := &Result{}

	if v, ok := r.context.Get(recognition.StageDetect); ok {
		cv, ok := v.(pipelines.ComponentsValue)
		if !ok {
			return nil, fmt.Errorf("detection output has unexpected type %q", v.Type())
		}
		result.Components = cv.Components
	}
	if v, ok := r.context.Get(recognition.StageLayout); ok {
		lv, ok := v.(pipelines.LayoutValue)
		if !ok {
			return nil, fmt.Errorf("layout output has unexpected type %q", v.Type())
		}
		result.Relationships = lv.Relationships
		result.Layouts = lv.Layouts
	}
	if v, ok := r.context.Get(recognition.StageClassify); ok {
		cv, ok := v.(pipelines.ClassificationsValue)
		if !ok {
			return nil, fmt.Errorf("classification output has unexpected type %q", v.Type())
		}
		result.Classifications = cv.Results
	}
	if v, ok := r.context.Get(recognition.ContextKeyPatterns); ok {
		pv, ok := v.(recognition.PatternsValue)
		if !ok {
			return nil, fmt.Errorf("pattern output has unexpected type %q", v.Type())
		}
		result.Patterns = pv.Groups
	}

	r.logger.Info("recognition run finished",
		Int("components", len(result.Components)),
		Int("relationships", len(result.Relationships)),
		Int("layouts", len(result.Layouts)))
	return result, nil
}
