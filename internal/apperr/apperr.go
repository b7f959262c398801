// Package apperr classifies errors into a small set of kinds so the CLI can
// pick exit codes and the HTTP API can pick status codes from one table.
package apperr

import (
	"errors"
	"net/http"

	"rcg/internal/chart"
	"rcg/internal/config"
	"rcg/internal/gender"
	"rcg/internal/runlock"
	"rcg/internal/snapshot"
	"rcg/internal/store"
)

// Kind names an error class.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindConsistency   Kind = "consistency"
	KindInternal      Kind = "internal"
)

// ErrorClassifier allows errors to declare their own kind.
type ErrorClassifier interface {
	ErrorKind() string
}

// Classify maps err to a Kind. Errors declaring a kind win over the sentinel
// table; anything unrecognised is internal.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return Kind(classifier.ErrorKind())
	}
	switch {
	case errors.Is(err, chart.ErrDateFormat),
		errors.Is(err, chart.ErrNoPrimaryArtist),
		errors.Is(err, chart.ErrMultiplePrimary),
		errors.Is(err, snapshot.ErrMalformedSnapshot),
		errors.Is(err, gender.ErrInvalidLabel):
		return KindValidation
	case errors.Is(err, store.ErrNoChartFound),
		errors.Is(err, store.ErrArtistNotFound):
		return KindNotFound
	case errors.Is(err, runlock.ErrRunInProgress):
		return KindConflict
	case errors.Is(err, store.ErrSchemaMismatch),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrMissingCredentials):
		return KindConfiguration
	}
	return KindInternal
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	switch Classify(err) {
	case "":
		return 0
	case KindValidation, KindConfiguration:
		return 2
	case KindNotFound:
		return 3
	case KindConflict:
		return 4
	case KindConsistency:
		return 5
	default:
		return 1
	}
}

// HTTPStatus returns the response status for err.
func HTTPStatus(err error) int {
	switch Classify(err) {
	case "":
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
