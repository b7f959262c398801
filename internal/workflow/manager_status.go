package workflow

import (
	"time"

	"rcg/internal/reconcile"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running      bool              `json:"running"`
	PollInterval time.Duration     `json:"poll_interval"`
	Runs         int               `json:"runs"`
	LastRun      time.Time         `json:"last_run"`
	LastError    string            `json:"last_error,omitempty"`
	LastResult   *reconcile.Result `json:"last_result,omitempty"`
}

// Status returns the latest workflow information.
func (m *Manager) Status() StatusSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary := StatusSummary{
		Running:      m.running,
		PollInterval: m.pollInterval,
		Runs:         m.runs,
		LastRun:      m.lastRun,
	}
	if m.lastErr != nil {
		summary.LastError = m.lastErr.Error()
	}
	if m.lastResult != nil {
		copy := *m.lastResult
		summary.LastResult = &copy
	}
	return summary
}
