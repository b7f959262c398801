package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rcg/internal/chart"
)

const (
	insertChartRowSQL = `INSERT OR IGNORE INTO chart
		(song_name, song_external_id, primary_artist_name, primary_artist_external_id, chart_date)
		VALUES (?, ?, ?, ?, ?)`
	insertArtistSQL = `INSERT OR IGNORE INTO artist
		(external_id, artist_name, source_a_gender, source_b_gender, gender)
		VALUES (?, ?, ?, ?, ?)`
	insertAppearanceSQL = `INSERT OR IGNORE INTO song
		(song_external_id, song_name, artist_external_id, artist_name, is_primary)
		VALUES (?, ?, ?, ?, ?)`
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertChartRows records one chart row per track for date. Tracks already
// charted on date are skipped.
func (s *Store) InsertChartRows(ctx context.Context, date chart.Date, tracks []chart.Track) (int64, error) {
	var inserted int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		n, err := insertChartRows(ctx, tx, date, tracks)
		inserted = n
		return err
	})
	return inserted, err
}

// InsertArtists records new artists. Known external ids are skipped, so a
// manual gender override is never replaced by a later classification.
func (s *Store) InsertArtists(ctx context.Context, artists []ArtistRecord) (int64, error) {
	var inserted int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		n, err := insertArtists(ctx, tx, artists)
		inserted = n
		return err
	})
	return inserted, err
}

// InsertAppearances records (song, artist) pairs not already present.
func (s *Store) InsertAppearances(ctx context.Context, appearances []chart.Appearance) (int64, error) {
	var inserted int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		n, err := insertAppearances(ctx, tx, appearances)
		inserted = n
		return err
	})
	return inserted, err
}

// Write applies a reconciliation batch in a single transaction: artists,
// then appearances, then chart rows. Any failure rolls back the whole batch.
func (s *Store) Write(ctx context.Context, batch Batch) (WriteSummary, error) {
	var summary WriteSummary
	if len(batch.Tracks) > 0 && batch.Date.IsZero() {
		return summary, errors.New("write batch: chart date required for chart rows")
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if summary.Artists, err = insertArtists(ctx, tx, batch.Artists); err != nil {
			return err
		}
		if summary.Appearances, err = insertAppearances(ctx, tx, batch.Appearances); err != nil {
			return err
		}
		if summary.ChartRows, err = insertChartRows(ctx, tx, batch.Date, batch.Tracks); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return WriteSummary{}, err
	}
	return summary, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

func insertChartRows(ctx context.Context, db execer, date chart.Date, tracks []chart.Track) (int64, error) {
	var inserted int64
	for _, track := range tracks {
		primary := track.Primary()
		res, err := db.ExecContext(ctx, insertChartRowSQL,
			track.SongName(), track.ExternalID(), primary.Name, primary.ExternalID, date.String())
		if err != nil {
			return inserted, fmt.Errorf("insert chart row %s on %s: %w", track.ExternalID(), date, err)
		}
		inserted += affected(res)
	}
	return inserted, nil
}

func insertArtists(ctx context.Context, db execer, artists []ArtistRecord) (int64, error) {
	var inserted int64
	for _, artist := range artists {
		if artist.ExternalID == "" {
			return inserted, fmt.Errorf("insert artist %q: external id required", artist.Name)
		}
		genderLabel := artist.Gender
		if genderLabel == "" {
			genderLabel = "x"
		}
		res, err := db.ExecContext(ctx, insertArtistSQL,
			artist.ExternalID, artist.Name, artist.SourceA, artist.SourceB, genderLabel)
		if err != nil {
			return inserted, fmt.Errorf("insert artist %s: %w", artist.ExternalID, err)
		}
		inserted += affected(res)
	}
	return inserted, nil
}

func insertAppearances(ctx context.Context, db execer, appearances []chart.Appearance) (int64, error) {
	var inserted int64
	for _, app := range appearances {
		res, err := db.ExecContext(ctx, insertAppearanceSQL,
			app.SongExternalID, app.SongName, app.ArtistExternalID, app.ArtistName, boolToInt(app.Role == chart.Primary))
		if err != nil {
			return inserted, fmt.Errorf("insert appearance %s/%s: %w", app.SongExternalID, app.ArtistExternalID, err)
		}
		inserted += affected(res)
	}
	return inserted, nil
}

func affected(res sql.Result) int64 {
	if res == nil {
		return 0
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
