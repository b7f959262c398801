package reconcile

import (
	"context"

	"rcg/internal/chart"
	"rcg/internal/gender"
	"rcg/internal/snapshot"
	"rcg/internal/store"
)

// PlaylistSource supplies live snapshots.
type PlaylistSource interface {
	Entries(ctx context.Context) ([]snapshot.Entry, error)
	Entry(ctx context.Context, songID string) (snapshot.Entry, error)
}

// ChartLoader reads persisted charts.
type ChartLoader interface {
	LoadChart(ctx context.Context, date chart.Date) (chart.Chart, error)
}

// ChartStore is the persistence the engine reads and writes.
type ChartStore interface {
	ChartLoader
	KnownArtistIDs(ctx context.Context, ids []string) (map[string]bool, error)
	Write(ctx context.Context, batch store.Batch) (store.WriteSummary, error)
}

// Classifier labels an artist by name. It never fails.
type Classifier interface {
	Classify(ctx context.Context, artistName string) gender.Result
}

// Expander appends collective members to a track.
type Expander interface {
	Expand(ctx context.Context, track chart.Track) chart.Track
}

// Locker serializes runs.
type Locker interface {
	Acquire() (func() error, error)
}

type noopLocker struct{}

func (noopLocker) Acquire() (func() error, error) { return func() error { return nil }, nil }

type noopExpander struct{}

func (noopExpander) Expand(_ context.Context, track chart.Track) chart.Track { return track }
