// Package runlock serializes reconciliation runs across processes with an
// advisory file lock, so the CLI and the daemon never write the same chart
// concurrently.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// ErrRunInProgress reports that another run holds the lock.
var ErrRunInProgress = errors.New("another reconciliation run is in progress")

// Lock guards one lock file. The file lock is shared by every holder of the
// same path; the mutex covers callers sharing this Lock value.
type Lock struct {
	path string
	mu   sync.Mutex
	held bool
	file *flock.Flock
}

// New returns a lock on path. The file is created on first acquisition.
func New(path string) *Lock {
	return &Lock{path: path, file: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Acquire takes the lock without blocking. The returned release function is
// safe to call more than once.
func (l *Lock) Acquire() (func() error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return nil, ErrRunInProgress
	}
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create lock directory: %w", err)
		}
	}
	ok, err := l.file.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", l.path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", l.path, ErrRunInProgress)
	}
	l.held = true

	var once sync.Once
	var releaseErr error
	return func() error {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.held = false
			if err := l.file.Unlock(); err != nil {
				releaseErr = fmt.Errorf("release run lock %s: %w", l.path, err)
			}
		})
		return releaseErr
	}, nil
}
