package pipelines

import (
	"errors"
	"time"

	"github.com/gridsight/gridsight/pkg/models"
)

// ErrNoCachedGrid is returned by incremental execution when the context
// holds no grid from a previous full run.
var ErrNoCachedGrid = errors.New("no cached grid for incremental run")

// Stage is one step of a recognition pipeline. Execute receives the
// previous stage's output (the pipeline input for the first stage) and
// the shared context.
type Stage interface {
	Name() string
	Execute(data StageValue, rc *RecognizerContext) (StageValue, error)
}

// IncrementalStage is a stage that can re-run from a grid delta instead
// of a full input. ExecuteIncremental returns the stage output plus the
// delta to hand the next stage; a stage that had to recompute everything
// returns a FullDelta.
type IncrementalStage interface {
	Stage
	ExecuteIncremental(delta models.GridDelta, data StageValue, rc *RecognizerContext) (StageValue, models.GridDelta, error)
}

// Monitor observes stage execution. Start is called before a stage runs
// and Stop after, with the duration and any error.
type Monitor interface {
	Start(stage string)
	Stop(stage string, elapsed time.Duration, err error)
}

// ErrorHandler may recover a failed stage. It returns a substitute
// output and true to continue the run, or false to let the failure
// propagate.
type ErrorHandler func(err error, data StageValue, rc *RecognizerContext) (StageValue, bool)
