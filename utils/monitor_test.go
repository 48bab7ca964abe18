package utils

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *Logger {
	logger := NewLogger()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func TestStageMonitor_RecordsRuns(t *testing.T) {
	m := NewStageMonitor(quietLogger())

	m.Start("detect")
	m.Stop("detect", 10*time.Millisecond, nil)
	m.Start("detect")
	m.Stop("detect", 30*time.Millisecond, nil)

	stats, ok := m.Stats("detect")
	require.True(t, ok)
	assert.Equal(t, 2, stats.Runs)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, 40*time.Millisecond, stats.TotalDuration)
	assert.Equal(t, 30*time.Millisecond, stats.LastDuration)
	assert.Equal(t, 20*time.Millisecond, stats.AverageDuration())
}

func TestStageMonitor_RecordsErrors(t *testing.T) {
	m := NewStageMonitor(quietLogger())

	m.Stop("classify", time.Millisecond, errors.New("untrained"))

	stats, ok := m.Stats("classify")
	require.True(t, ok)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, "untrained", stats.LastError)
}

func TestStageMonitor_UnknownStage(t *testing.T) {
	m := NewStageMonitor(quietLogger())

	_, ok := m.Stats("nope")
	assert.False(t, ok)
}

func TestStageMonitor_AllStatsAndReset(t *testing.T) {
	m := NewStageMonitor(quietLogger())
	m.Stop("a", time.Millisecond, nil)
	m.Stop("b", time.Millisecond, nil)

	all := m.AllStats()
	assert.Len(t, all, 2)

	m.Reset()
	assert.Empty(t, m.AllStats())
}
