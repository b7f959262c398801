package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"rcg/internal/runlock"
)

func TestAcquireIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reconcile.lock")
	first := runlock.New(path)
	release, err := first.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if _, err := first.Acquire(); !errors.Is(err, runlock.ErrRunInProgress) {
		t.Fatalf("expected same-handle acquire to fail, got %v", err)
	}
	second := runlock.New(path)
	if _, err := second.Acquire(); !errors.Is(err, runlock.ErrRunInProgress) {
		t.Fatalf("expected second handle to fail, got %v", err)
	}

	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := release(); err != nil {
		t.Fatalf("second release should be a no-op: %v", err)
	}

	releaseSecond, err := second.Acquire()
	if err != nil {
		t.Fatalf("expected lock to be free after release: %v", err)
	}
	_ = releaseSecond()
}
