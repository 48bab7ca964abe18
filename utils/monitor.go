package utils

import (
	"sync"
	"time"
)

// StageStats accumulates execution statistics for one pipeline stage.
type StageStats struct {
	Runs          int           `json:"runs"`
	Errors        int           `json:"errors"`
	TotalDuration time.Duration `json:"total_duration"`
	LastDuration  time.Duration `json:"last_duration"`
	LastError     string        `json:"last_error,omitempty"`
}

// AverageDuration returns the mean stage duration over all runs.
func (s StageStats) AverageDuration() time.Duration {
	if s.Runs == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Runs)
}

// StageMonitor implements the pipeline Monitor interface, tracking
// per-stage run counts and durations and logging every completion.
type StageMonitor struct {
	mu     sync.Mutex
	stats  map[string]*StageStats
	logger *Logger
}

// NewStageMonitor creates a monitor logging through the given logger.
// A nil logger falls back to the global one.
func NewStageMonitor(logger *Logger) *StageMonitor {
	if logger == nil {
		logger = GetLogger()
	}
	return &StageMonitor{
		stats:  make(map[string]*StageStats),
		logger: logger,
	}
}

// Start marks a stage as running.
func (m *StageMonitor) Start(stage string) {
	m.logger.Debug("stage started", Component(stage))
}

// Stop records a completed stage run.
func (m *StageMonitor) Stop(stage string, elapsed time.Duration, err error) {
	m.mu.Lock()
	s, ok := m.stats[stage]
	if !ok {
		s = &StageStats{}
		m.stats[stage] = s
	}
	s.Runs++
	s.TotalDuration += elapsed
	s.LastDuration = elapsed
	if err != nil {
		s.Errors++
		s.LastError = err.Error()
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("stage failed", err, Component(stage), Duration("elapsed", elapsed))
		return
	}
	m.logger.Debug("stage finished", Component(stage), Duration("elapsed", elapsed))
}

// Stats returns a copy of the accumulated statistics for one stage.
func (m *StageMonitor) Stats(stage string) (StageStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[stage]
	if !ok {
		return StageStats{}, false
	}
	return *s, true
}

// AllStats returns a copy of the statistics for every observed stage.
func (m *StageMonitor) AllStats() map[string]StageStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]StageStats, len(m.stats))
	for name, s := range m.stats {
		out[name] = *s
	}
	return out
}

// Reset clears all accumulated statistics.
func (m *StageMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = make(map[string]*StageStats)
}
