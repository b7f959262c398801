package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"rcg/internal/logging"
	"rcg/internal/reconcile"
	"rcg/internal/runlock"
)

// Runner performs one reconciliation. Blank date means today.
type Runner interface {
	Reconcile(ctx context.Context, date string) (reconcile.Result, error)
}

// Manager coordinates periodic reconciliation.
type Manager struct {
	runner       Runner
	logger       *slog.Logger
	pollInterval time.Duration

	mu         sync.RWMutex
	running    bool
	busy       bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	lastErr    error
	lastResult *reconcile.Result
	lastRun    time.Time
	runs       int
}

// NewManager constructs a manager that reconciles every pollInterval.
func NewManager(runner Runner, pollInterval time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	if pollInterval <= 0 {
		pollInterval = time.Hour
	}
	return &Manager{
		runner:       runner,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		pollInterval: pollInterval,
	}
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("workflow already running")
	}
	if m.runner == nil {
		return errors.New("workflow runner not configured")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	go m.loop(runCtx)
	m.logger.Info("workflow started", logging.Duration("poll_interval", m.pollInterval))
	return nil
}

// Stop terminates background processing and waits for the current run.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// RunOnce reconciles today's chart immediately. It returns
// runlock.ErrRunInProgress when a scheduled run is in flight.
func (m *Manager) RunOnce(ctx context.Context) (reconcile.Result, error) {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return reconcile.Result{}, runlock.ErrRunInProgress
	}
	m.busy = true
	m.mu.Unlock()

	result, err := m.runner.Reconcile(ctx, "")
	m.record(result, err)
	return result, err
}

func (m *Manager) loop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	m.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Manager) tick(ctx context.Context) {
	_, err := m.RunOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
	case errors.Is(err, runlock.ErrRunInProgress):
		m.logger.Info("reconciliation skipped; another run is in progress",
			logging.String(logging.FieldEventType, "reconcile_skipped"),
		)
	default:
		logging.ErrorWithContext(m.logger, "scheduled reconciliation failed", "reconcile_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check credentials and network access; the next tick retries"),
		)
	}
}

func (m *Manager) record(result reconcile.Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if errors.Is(err, runlock.ErrRunInProgress) {
		return
	}
	m.lastRun = time.Now()
	m.runs++
	m.lastErr = err
	if err == nil {
		copy := result
		m.lastResult = &copy
	}
}
