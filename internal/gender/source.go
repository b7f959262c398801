package gender

import (
	"context"
	"errors"
	"fmt"
)

// Errors a BiographySource returns when it cannot supply text. Each maps to
// the sentinel label of the same name.
var (
	ErrNotFound     = errors.New("artist not found")
	ErrDisambiguous = errors.New("ambiguous artist name")
	ErrPageError    = errors.New("biography page unavailable")
	ErrNoBio        = errors.New("artist has no biography")
)

// BiographySource fetches free-text biography for an artist name.
type BiographySource interface {
	Name() string
	Biography(ctx context.Context, artistName string) (string, error)
}

// LookupError wraps an unexpected source failure (transport, decoding).
// It never escapes the classifier; it is logged and degraded to PageError.
type LookupError struct {
	Source string
	Artist string
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup for %q: %v", e.Source, e.Artist, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// SentinelFor maps a source error to its sentinel label. Unrecognised errors
// map to PageError.
func SentinelFor(err error) Label {
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound
	case errors.Is(err, ErrDisambiguous):
		return Disambiguous
	case errors.Is(err, ErrNoBio):
		return NoBio
	default:
		return PageError
	}
}

func isKnownSourceError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDisambiguous) ||
		errors.Is(err, ErrPageError) ||
		errors.Is(err, ErrNoBio)
}
