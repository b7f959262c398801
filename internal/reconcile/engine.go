package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"rcg/internal/chart"
	"rcg/internal/gender"
	"rcg/internal/logging"
	"rcg/internal/snapshot"
	"rcg/internal/store"
)

// Status is the outcome of a reconciliation run.
type Status string

const (
	StatusNoUpdate Status = "no_update"
	StatusUpdated  Status = "updated"
)

// Result describes one reconciliation run.
type Result struct {
	RunID      string               `json:"run_id"`
	Date       chart.Date           `json:"date"`
	Status     Status               `json:"status"`
	Added      []chart.Track        `json:"added"`
	Removed    []chart.Track        `json:"removed"`
	NewArtists []store.ArtistRecord `json:"new_artists"`
	Written    store.WriteSummary   `json:"written"`
}

// DiffResult compares two persisted charts.
type DiffResult struct {
	From    chart.Date    `json:"from"`
	To      chart.Date    `json:"to"`
	Added   []chart.Track `json:"added"`
	Removed []chart.Track `json:"removed"`
}

// AddSongResult describes a single-track artist import.
type AddSongResult struct {
	RunID      string               `json:"run_id"`
	Track      chart.Track          `json:"track"`
	NewArtists []store.ArtistRecord `json:"new_artists"`
	Written    store.WriteSummary   `json:"written"`
}

// Dependencies wires an Engine. Store, Classifier, and Clock are required.
// A nil Expander skips collective expansion and a nil Lock skips run
// serialization.
type Dependencies struct {
	Playlist   PlaylistSource
	Store      ChartStore
	Classifier Classifier
	Expander   Expander
	Lock       Locker
	Clock      chart.Clock
	Logger     *slog.Logger
}

// Engine runs reconciliations. It keeps no state between calls.
type Engine struct {
	playlist   PlaylistSource
	store      ChartStore
	classifier Classifier
	expander   Expander
	lock       Locker
	clock      chart.Clock
	logger     *slog.Logger
}

// New validates deps and returns an Engine.
func New(deps Dependencies) (*Engine, error) {
	if deps.Store == nil || deps.Classifier == nil || deps.Clock == nil {
		return nil, errors.New("reconcile engine requires store, classifier, and clock")
	}
	engine := &Engine{
		playlist:   deps.Playlist,
		store:      deps.Store,
		classifier: deps.Classifier,
		expander:   deps.Expander,
		lock:       deps.Lock,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
	if engine.expander == nil {
		engine.expander = noopExpander{}
	}
	if engine.lock == nil {
		engine.lock = noopLocker{}
	}
	if engine.logger == nil {
		engine.logger = logging.NewNop()
	}
	engine.logger = logging.NewComponentLogger(engine.logger, "reconcile")
	return engine, nil
}

// ResolveDate validates a caller-supplied date. Blank input means today in
// the engine's clock.
func (e *Engine) ResolveDate(input string) (chart.Date, error) {
	if strings.TrimSpace(input) == "" {
		return e.clock.Today(), nil
	}
	return chart.ParseDate(input)
}

// Reconcile brings the stored chart for dateInput in line with the live
// playlist. Blank dateInput means today.
func (e *Engine) Reconcile(ctx context.Context, dateInput string) (Result, error) {
	date, err := e.ResolveDate(dateInput)
	if err != nil {
		return Result{}, err
	}
	if e.playlist == nil {
		return Result{}, errors.New("reconcile: playlist source not configured")
	}

	release, err := e.lock.Acquire()
	if err != nil {
		return Result{}, err
	}
	defer e.release(release)

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := e.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldChartDate, date.String()),
	)
	started := time.Now()
	result := Result{RunID: runID, Date: date}

	entries, err := e.playlist.Entries(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch snapshot: %w", err)
	}
	live, err := snapshot.Normalize(date, entries)
	if err != nil {
		return result, fmt.Errorf("normalize snapshot: %w", err)
	}
	persisted, err := e.loadOrEmpty(ctx, date)
	if err != nil {
		return result, err
	}

	added, removed := chart.Diff(live, persisted)
	result.Removed = removed
	if len(added) == 0 {
		result.Status = StatusNoUpdate
		logger.Info("chart already up to date",
			logging.String(logging.FieldEventType, "reconcile_no_update"),
			logging.Int("live_tracks", live.Len()),
			logging.Int("removed", len(removed)),
		)
		return result, nil
	}

	expanded := make([]chart.Track, 0, len(added))
	for _, track := range added {
		expanded = append(expanded, e.expander.Expand(ctx, track))
	}
	newArtists, err := e.classifyNewArtists(ctx, logger, expanded)
	if err != nil {
		return result, err
	}

	written, err := e.store.Write(ctx, store.Batch{
		Date:        date,
		Tracks:      expanded,
		Artists:     newArtists,
		Appearances: chart.Appearances(expanded),
	})
	if err != nil {
		return result, fmt.Errorf("persist chart %s: %w", date, err)
	}
	result.Status = StatusUpdated
	result.Added = expanded
	result.NewArtists = newArtists
	result.Written = written

	reloaded, err := e.loadOrEmpty(ctx, date)
	if err != nil {
		return result, err
	}
	if err := checkConsistency(date, live.Union(persisted), reloaded); err != nil {
		logging.ErrorWithContext(logger, "persisted chart does not match snapshot", "reconcile_inconsistent",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "another writer may have touched the store; inspect the chart rows for this date"),
		)
		return result, err
	}

	logger.Info("chart reconciled",
		logging.String(logging.FieldEventType, "reconcile_updated"),
		logging.Int("added", len(expanded)),
		logging.Int("removed", len(removed)),
		logging.Int("new_artists", len(newArtists)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// Diff compares the stored charts for two dates; added and removed are
// relative to fromInput.
func (e *Engine) Diff(ctx context.Context, fromInput, toInput string) (DiffResult, error) {
	return Diff(ctx, e.store, fromInput, toInput)
}

// Diff compares two persisted charts without needing a playlist source or
// classifier. Both dates must have a stored chart.
func Diff(ctx context.Context, st ChartLoader, fromInput, toInput string) (DiffResult, error) {
	from, err := chart.ParseDate(fromInput)
	if err != nil {
		return DiffResult{}, err
	}
	to, err := chart.ParseDate(toInput)
	if err != nil {
		return DiffResult{}, err
	}
	fromChart, err := st.LoadChart(ctx, from)
	if err != nil {
		return DiffResult{}, err
	}
	toChart, err := st.LoadChart(ctx, to)
	if err != nil {
		return DiffResult{}, err
	}
	added, removed := chart.Diff(toChart, fromChart)
	return DiffResult{From: from, To: to, Added: added, Removed: removed}, nil
}

// ClassifyGender labels an artist without touching the store.
func (e *Engine) ClassifyGender(ctx context.Context, artistName string) gender.Result {
	return e.classifier.Classify(ctx, artistName)
}

// AddSong imports the artists and appearances of one track without charting
// it.
func (e *Engine) AddSong(ctx context.Context, songID string) (AddSongResult, error) {
	if e.playlist == nil {
		return AddSongResult{}, errors.New("add song: playlist source not configured")
	}
	release, err := e.lock.Acquire()
	if err != nil {
		return AddSongResult{}, err
	}
	defer e.release(release)

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := e.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldSongID, songID),
	)
	result := AddSongResult{RunID: runID}

	entry, err := e.playlist.Entry(ctx, songID)
	if err != nil {
		return result, fmt.Errorf("fetch track: %w", err)
	}
	track, err := snapshot.NormalizeEntry(entry)
	if err != nil {
		return result, err
	}
	track = e.expander.Expand(ctx, track)
	newArtists, err := e.classifyNewArtists(ctx, logger, []chart.Track{track})
	if err != nil {
		return result, err
	}
	written, err := e.store.Write(ctx, store.Batch{
		Artists:     newArtists,
		Appearances: chart.Appearances([]chart.Track{track}),
	})
	if err != nil {
		return result, fmt.Errorf("persist song %s: %w", songID, err)
	}
	result.Track = track
	result.NewArtists = newArtists
	result.Written = written
	logger.Info("song artists added",
		logging.String(logging.FieldEventType, "song_added"),
		logging.Int("new_artists", len(newArtists)),
	)
	return result, nil
}

// release frees the run lock. A failure leaves a stale lock file behind, so
// it is logged rather than dropped.
func (e *Engine) release(unlock func() error) {
	if err := unlock(); err != nil {
		logging.WarnWithContext(e.logger, "run lock release failed", "run_lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the lock file if the next run reports a run in progress"),
			logging.String(logging.FieldImpact, "later runs may be refused"),
		)
	}
}

func (e *Engine) loadOrEmpty(ctx context.Context, date chart.Date) (chart.Chart, error) {
	persisted, err := e.store.LoadChart(ctx, date)
	if errors.Is(err, store.ErrNoChartFound) {
		return chart.NewChart(date), nil
	}
	if err != nil {
		return chart.Chart{}, fmt.Errorf("load persisted chart %s: %w", date, err)
	}
	return persisted, nil
}

// classifyNewArtists labels every distinct credited artist the store does
// not know yet, in credit order. All lookups finish before anything is
// written.
func (e *Engine) classifyNewArtists(ctx context.Context, logger *slog.Logger, tracks []chart.Track) ([]store.ArtistRecord, error) {
	var (
		ids   []string
		names = make(map[string]string)
	)
	for _, track := range tracks {
		for _, credit := range track.Credits() {
			if _, ok := names[credit.ExternalID]; ok {
				continue
			}
			names[credit.ExternalID] = credit.Name
			ids = append(ids, credit.ExternalID)
		}
	}
	known, err := e.store.KnownArtistIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load known artists: %w", err)
	}

	var records []store.ArtistRecord
	for _, id := range ids {
		if known[id] {
			continue
		}
		result := e.classifier.Classify(ctx, names[id])
		logger.Info("new artist classified",
			logging.String(logging.FieldArtist, names[id]),
			logging.String(logging.FieldArtistID, id),
			logging.String("gender", result.Gender.String()),
		)
		records = append(records, store.ArtistRecord{
			ExternalID: id,
			Name:       names[id],
			SourceA:    result.SourceA.String(),
			SourceB:    result.SourceB.String(),
			Gender:     result.Gender.String(),
		})
	}
	return records, nil
}
