package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"rcg/internal/config"
	"rcg/internal/httpapi"
	"rcg/internal/logging"
	"rcg/internal/store"
	"rcg/internal/workflow"
)

// Daemon coordinates scheduled reconciliation and the API server and
// enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	workflow *workflow.Manager
	api      *httpapi.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool                   `json:"running"`
	PID          int                    `json:"pid"`
	StorePath    string                 `json:"store_path"`
	LockFilePath string                 `json:"lock_file_path"`
	APIAddress   string                 `json:"api_address,omitempty"`
	Workflow     workflow.StatusSummary `json:"workflow"`
	Tables       *store.TableCounts     `json:"tables,omitempty"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, wf *workflow.Manager, reports httpapi.Reports, engine httpapi.Engine) (*Daemon, error) {
	if cfg == nil || st == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, and workflow manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Paths.DataDir, "rcgd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		workflow: wf,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	api, err := httpapi.New(httpapi.Options{
		Bind:    cfg.Paths.APIBind,
		Token:   cfg.Paths.APIToken,
		Reports: reports,
		Engine:  engine,
		Status:  func(ctx context.Context) any { return d.Status(ctx) },
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create api server: %w", err)
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock, then launches the workflow and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("ensure lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another rcgd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	if err := d.workflow.Start(runCtx); err != nil {
		d.api.Stop()
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start workflow: %w", err)
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("rcg daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	d.api.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("rcg daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// APIAddress returns the address the API server is bound to.
func (d *Daemon) APIAddress() string {
	return d.api.Addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		StorePath:    d.store.Path(),
		LockFilePath: d.lockPath,
		APIAddress:   d.api.Addr(),
		Workflow:     d.workflow.Status(),
	}
	counts, err := d.store.Counts(ctx)
	if err != nil {
		d.logger.Warn("failed to read table counts", logging.Error(err))
	} else {
		status.Tables = &counts
	}
	return status
}
