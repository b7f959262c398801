package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one reconciliation run.
	FieldRunID = "run_id"
	// FieldChartDate is the chart date a line refers to.
	FieldChartDate = "chart_date"
	// FieldArtist and FieldArtistID describe the artist being resolved.
	FieldArtist   = "artist"
	FieldArtistID = "artist_id"
	// FieldSongID is a song external id.
	FieldSongID = "song_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type runIDKey struct{}

// WithRunID stores a run id on the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run id stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext returns a logger augmented with fields carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RunIDFromContext(ctx); ok {
		return logger.With(slog.String(FieldRunID, id))
	}
	return logger
}
