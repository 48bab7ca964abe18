package pipelines

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grid "github.com/gridsight/gridsight/pipelines/Grid"
	"github.com/gridsight/gridsight/pkg/models"
)

type stubStage struct {
	name string
	fn   func(data StageValue, rc *RecognizerContext) (StageValue, error)
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Execute(data StageValue, rc *RecognizerContext) (StageValue, error) {
	return s.fn(data, rc)
}

type recordingMonitor struct {
	started []string
	stopped []string
	errs    []error
}

func (m *recordingMonitor) Start(stage string) {
	m.started = append(m.started, stage)
}

func (m *recordingMonitor) Stop(stage string, _ time.Duration, err error) {
	m.stopped = append(m.stopped, stage)
	m.errs = append(m.errs, err)
}

func appendText(name, suffix string) *stubStage {
	return &stubStage{name: name, fn: func(data StageValue, _ *RecognizerContext) (StageValue, error) {
		tv := data.(TextValue)
		return TextValue{Text: tv.Text + suffix}, nil
	}}
}

func TestPipeline_RunOrderAndContext(t *testing.T) {
	p := New()
	p.Register(appendText("first", "-a"))
	p.Register(appendText("second", "-b"))

	rc := NewRecognizerContext()
	out, outputs, err := p.Run(TextValue{Text: "x"}, rc)
	require.NoError(t, err)
	assert.Equal(t, TextValue{Text: "x-a-b"}, out)

	// Each stage's output comes back keyed by stage name and also
	// lands in the context.
	assert.Equal(t, map[string]StageValue{
		"first":  TextValue{Text: "x-a"},
		"second": TextValue{Text: "x-a-b"},
	}, outputs)
	v, ok := rc.Get("first")
	require.True(t, ok)
	assert.Equal(t, TextValue{Text: "x-a"}, v)
	v, ok = rc.Get("second")
	require.True(t, ok)
	assert.Equal(t, TextValue{Text: "x-a-b"}, v)
}

func TestPipeline_FailureNamesStage(t *testing.T) {
	boom := errors.New("boom")
	p := New()
	p.Register(appendText("first", "-a"))
	p.Register(&stubStage{name: "broken", fn: func(StageValue, *RecognizerContext) (StageValue, error) {
		return nil, boom
	}})

	_, _, err := p.Run(TextValue{Text: "x"}, NewRecognizerContext())
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "broken", stageErr.Stage)
	assert.ErrorIs(t, err, boom)
}

func TestPipeline_ErrorHandlerSubstitutes(t *testing.T) {
	p := New()
	p.Register(&stubStage{name: "broken", fn: func(StageValue, *RecognizerContext) (StageValue, error) {
		return nil, errors.New("boom")
	}})
	p.Register(appendText("after", "-z"))
	p.RegisterErrorHandler("broken", func(_ error, _ StageValue, _ *RecognizerContext) (StageValue, bool) {
		return TextValue{Text: "recovered"}, true
	})

	out, outputs, err := p.Run(TextValue{Text: "x"}, NewRecognizerContext())
	require.NoError(t, err)
	assert.Equal(t, TextValue{Text: "recovered-z"}, out)
	assert.Equal(t, TextValue{Text: "recovered"}, outputs["broken"])
}

func TestPipeline_ErrorHandlerDeclines(t *testing.T) {
	p := New()
	p.Register(&stubStage{name: "broken", fn: func(StageValue, *RecognizerContext) (StageValue, error) {
		return nil, errors.New("boom")
	}})
	p.RegisterErrorHandler("broken", func(_ error, _ StageValue, _ *RecognizerContext) (StageValue, bool) {
		return nil, false
	})

	_, _, err := p.Run(TextValue{Text: "x"}, NewRecognizerContext())
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "broken", stageErr.Stage)
}

func TestPipeline_MonitorPairing(t *testing.T) {
	m := &recordingMonitor{}
	p := New()
	p.Register(appendText("first", "-a"))
	p.Register(appendText("second", "-b"))
	p.RegisterMonitor("", m)

	_, _, err := p.Run(TextValue{Text: "x"}, NewRecognizerContext())
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, m.started)
	assert.Equal(t, []string{"first", "second"}, m.stopped)
	assert.Equal(t, []error{nil, nil}, m.errs)
}

func TestPipeline_PerStageMonitor(t *testing.T) {
	m := &recordingMonitor{}
	p := New()
	p.Register(appendText("first", "-a"))
	p.Register(appendText("second", "-b"))
	p.RegisterMonitor("second", m)

	_, _, err := p.Run(TextValue{Text: "x"}, NewRecognizerContext())
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, m.started)
}

func TestPipeline_RunIncrementalRequiresCachedGrid(t *testing.T) {
	p := New()
	p.Register(appendText("first", "-a"))

	_, err := p.RunIncremental(models.CharDelta{X: 0, Y: 0, Char: 'x'}, NewRecognizerContext())
	assert.ErrorIs(t, err, ErrNoCachedGrid)
}

func TestPipeline_RunIncrementalFallsBackToFullExecute(t *testing.T) {
	calls := 0
	p := New()
	p.Register(&stubStage{name: "plain", fn: func(_ StageValue, _ *RecognizerContext) (StageValue, error) {
		calls++
		return TextValue{Text: "full"}, nil
	}})

	rc := NewRecognizerContext()
	rc.Set(ContextKeyLastGrid, GridValue{Grid: grid.FromText("ab\ncd")})

	out, err := p.RunIncremental(models.CharDelta{X: 0, Y: 0, Char: 'x'}, rc)
	require.NoError(t, err)
	assert.Equal(t, TextValue{Text: "full"}, out)
	assert.Equal(t, 1, calls, "a stage without incremental support re-executes fully")
}

func TestPipeline_RunIncrementalSeedsFallbackFromCachedGrid(t *testing.T) {
	var seen StageValue
	p := New()
	p.Register(&stubStage{name: "plain", fn: func(data StageValue, _ *RecognizerContext) (StageValue, error) {
		seen = data
		return data, nil
	}})

	rc := NewRecognizerContext()
	rc.Set(ContextKeyLastGrid, GridValue{Grid: grid.FromText("ab\ncd")})

	_, err := p.RunIncremental(models.CharDelta{X: 0, Y: 0, Char: 'x'}, rc)
	require.NoError(t, err)

	gv, ok := seen.(GridValue)
	require.True(t, ok, "a first stage without upstream output reprocesses the cached grid")
	assert.Equal(t, "ab\ncd", gv.Grid.String())
}

func TestRecognizerContext_CloneIsDeep(t *testing.T) {
	rc := NewRecognizerContext()
	rc.Set("grid", GridValue{Grid: grid.FromText("ab")})
	rc.SetMetadata("run", "1")

	clone := rc.Clone()
	v, ok := clone.Get("grid")
	require.True(t, ok)
	v.(GridValue).Grid.Set(0, 0, 'z')

	orig, _ := rc.Get("grid")
	ch, _ := orig.(GridValue).Grid.Get(0, 0)
	assert.Equal(t, 'a', ch)

	meta, ok := clone.Metadata("run")
	require.True(t, ok)
	assert.Equal(t, "1", meta)
}

func TestRecognizerContext_GetTyped(t *testing.T) {
	rc := NewRecognizerContext()
	rc.Set("input", TextValue{Text: "x"})

	_, err := rc.GetTyped("input", "text")
	assert.NoError(t, err)
	_, err = rc.GetTyped("input", "grid")
	assert.Error(t, err)
	_, err = rc.GetTyped("missing", "text")
	assert.Error(t, err)
}
