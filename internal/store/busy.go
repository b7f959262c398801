package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// busyBackoff retries statements that fail with SQLITE_BUSY. The daemon and
// a CLI command may write the same file; busy_timeout covers most waits and
// this catches the rest.
type busyBackoff struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

var defaultBackoff = busyBackoff{attempts: 5, initial: 10 * time.Millisecond, max: 200 * time.Millisecond}

const sqliteBusy = 5

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code()&0xff == sqliteBusy {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (b busyBackoff) run(ctx context.Context, op func() error) error {
	delay := b.initial
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !isBusy(err) || attempt >= b.attempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
		delay = min(delay*2, b.max)
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func retryOnBusy(ctx context.Context, op func() error) error {
	return defaultBackoff.run(ensureContext(ctx), op)
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
