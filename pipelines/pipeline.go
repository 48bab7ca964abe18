package pipelines

import (
	"fmt"
	"time"

	"github.com/gridsight/gridsight/pkg/models"
)

// StageError wraps a stage failure with the name of the failing stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline runs an ordered list of stages, feeding each stage the
// previous stage's output. Stage outputs are also published into the
// context under the stage name so later stages and callers can reach
// intermediate results.
type Pipeline struct {
	stages   []Stage
	handlers map[string]ErrorHandler
	monitors map[string][]Monitor
}

// New creates an empty pipeline.
func New() *Pipeline {
	return &Pipeline{
		handlers: make(map[string]ErrorHandler),
		monitors: make(map[string][]Monitor),
	}
}

// Register appends a stage. Stages run in registration order.
func (p *Pipeline) Register(stage Stage) {
	p.stages = append(p.stages, stage)
}

// RegisterErrorHandler installs a recovery handler for the named stage,
// replacing any previous handler.
func (p *Pipeline) RegisterErrorHandler(stage string, handler ErrorHandler) {
	p.handlers[stage] = handler
}

// RegisterMonitor attaches a monitor notified around runs of the named
// stage. An empty stage name attaches the monitor to every stage.
func (p *Pipeline) RegisterMonitor(stage string, m Monitor) {
	p.monitors[stage] = append(p.monitors[stage], m)
}

func (p *Pipeline) stageMonitors(stage string) []Monitor {
	if len(p.monitors[""]) == 0 {
		return p.monitors[stage]
	}
	return append(append([]Monitor{}, p.monitors[""]...), p.monitors[stage]...)
}

// Stages returns the registered stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes every stage in order against a fresh view of the input.
// It returns the final stage's output together with every stage's output
// keyed by stage name; the same outputs are also published into the
// context. The first unrecovered failure aborts the run with a
// StageError naming the stage.
func (p *Pipeline) Run(input StageValue, rc *RecognizerContext) (StageValue, map[string]StageValue, error) {
	data := input
	outputs := make(map[string]StageValue, len(p.stages))
	for _, stage := range p.stages {
		out, err := p.runStage(stage, data, rc)
		if err != nil {
			return nil, nil, err
		}
		rc.Set(stage.Name(), out)
		outputs[stage.Name()] = out
		data = out
	}
	return data, outputs, nil
}

func (p *Pipeline) runStage(stage Stage, data StageValue, rc *RecognizerContext) (StageValue, error) {
	name := stage.Name()
	monitors := p.stageMonitors(name)
	for _, m := range monitors {
		m.Start(name)
	}
	started := time.Now()
	out, err := stage.Execute(data, rc)
	elapsed := time.Since(started)
	for _, m := range monitors {
		m.Stop(name, elapsed, err)
	}
	if err != nil {
		if handler, ok := p.handlers[name]; ok {
			if substitute, recovered := handler(err, data, rc); recovered {
				return substitute, nil
			}
		}
		return nil, &StageError{Stage: name, Err: err}
	}
	return out, nil
}

// RunIncremental re-runs the pipeline from a grid delta. The context
// must hold a grid cached by a previous full run under
// ContextKeyLastGrid, otherwise ErrNoCachedGrid is returned. Stages
// implementing IncrementalStage receive the delta; other stages fall
// back to a full Execute and pass a FullDelta downstream.
func (p *Pipeline) RunIncremental(delta models.GridDelta, rc *RecognizerContext) (StageValue, error) {
	if _, ok := rc.Get(ContextKeyLastGrid); !ok {
		return nil, ErrNoCachedGrid
	}

	var data StageValue
	current := delta
	for _, stage := range p.stages {
		name := stage.Name()
		monitors := p.stageMonitors(name)
		for _, m := range monitors {
			m.Start(name)
		}
		started := time.Now()

		var out StageValue
		var next models.GridDelta
		var err error
		if inc, ok := stage.(IncrementalStage); ok {
			out, next, err = inc.ExecuteIncremental(current, data, rc)
		} else {
			in := data
			if in == nil {
				// No upstream output yet: reprocess the cached grid in
				// full rather than hand the stage a nil input.
				in = cachedGridValue(rc)
			}
			out, err = stage.Execute(in, rc)
			next = fullDeltaFromContext(rc)
		}

		elapsed := time.Since(started)
		for _, m := range monitors {
			m.Stop(name, elapsed, err)
		}
		if err != nil {
			if handler, ok := p.handlers[name]; ok {
				if substitute, recovered := handler(err, data, rc); recovered {
					out, next = substitute, fullDeltaFromContext(rc)
				} else {
					return nil, &StageError{Stage: name, Err: err}
				}
			} else {
				return nil, &StageError{Stage: name, Err: err}
			}
		}

		rc.Set(name, out)
		data = out
		current = next
	}
	return data, nil
}

// cachedGridValue returns a copy of the grid cached by the last full
// run, or nil when none is cached.
func cachedGridValue(rc *RecognizerContext) StageValue {
	v, ok := rc.Get(ContextKeyLastGrid)
	if !ok {
		return nil
	}
	gv, ok := v.(GridValue)
	if !ok || gv.Grid == nil {
		return nil
	}
	return gv.Clone()
}

// fullDeltaFromContext synthesizes a FullDelta from the cached grid so a
// non-incremental stage still hands its successor a usable delta.
func fullDeltaFromContext(rc *RecognizerContext) models.GridDelta {
	v, ok := rc.Get(ContextKeyLastGrid)
	if !ok {
		return models.FullDelta{}
	}
	gv, ok := v.(GridValue)
	if !ok || gv.Grid == nil {
		return models.FullDelta{}
	}
	return models.FullDelta{Rows: gv.Grid.Rows()}
}
