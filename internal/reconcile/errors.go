package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"rcg/internal/chart"
)

// ErrConsistency marks a run whose reloaded chart differs from what it wrote.
var ErrConsistency = errors.New("reconciliation consistency check failed")

// ConsistencyError lists the song ids that differ between the intended and
// the reloaded chart. It is fatal and never retried.
type ConsistencyError struct {
	Date       chart.Date
	Missing    []string
	Unexpected []string
}

func (e *ConsistencyError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ","))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Unexpected, ","))
	}
	return fmt.Sprintf("%s for %s: %s", ErrConsistency, e.Date, strings.Join(parts, "; "))
}

// Is matches ErrConsistency.
func (e *ConsistencyError) Is(target error) bool { return target == ErrConsistency }

// ErrorKind classifies the error for exit and status codes.
func (e *ConsistencyError) ErrorKind() string { return "consistency" }

func checkConsistency(date chart.Date, intended, reloaded chart.Chart) error {
	if reloaded.Equal(intended) {
		return nil
	}
	missing, unexpected := chart.Diff(intended, reloaded)
	return &ConsistencyError{Date: date, Missing: trackIDs(missing), Unexpected: trackIDs(unexpected)}
}

func trackIDs(tracks []chart.Track) []string {
	ids := make([]string, 0, len(tracks))
	for _, track := range tracks {
		ids = append(ids, track.ExternalID())
	}
	return ids
}
