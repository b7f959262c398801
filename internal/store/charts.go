package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rcg/internal/chart"
)

// LoadChart rebuilds the persisted chart for date. The primary credit comes
// from the chart row and the remaining credits from song rows in insertion
// order. A date without rows returns ErrNoChartFound.
func (s *Store) LoadChart(ctx context.Context, date chart.Date) (chart.Chart, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.song_external_id, c.song_name, c.primary_artist_name, c.primary_artist_external_id,
		       s.artist_external_id, s.artist_name
		FROM chart c
		LEFT JOIN song s
		  ON s.song_external_id = c.song_external_id
		 AND s.artist_external_id != c.primary_artist_external_id
		WHERE c.chart_date = ?
		ORDER BY c.id, s.id`, date.String())
	if err != nil {
		return chart.Chart{}, fmt.Errorf("load chart %s: %w", date, err)
	}
	defer rows.Close()

	type pending struct {
		name    string
		id      string
		credits []chart.Artist
	}
	var order []string
	byID := make(map[string]*pending)
	for rows.Next() {
		var (
			songID, songName, primaryName, primaryID string
			artistID, artistName                     sql.NullString
		)
		if err := rows.Scan(&songID, &songName, &primaryName, &primaryID, &artistID, &artistName); err != nil {
			return chart.Chart{}, fmt.Errorf("scan chart row: %w", err)
		}
		entry, ok := byID[songID]
		if !ok {
			entry = &pending{
				name:    songName,
				id:      songID,
				credits: []chart.Artist{{Name: primaryName, ExternalID: primaryID, Role: chart.Primary}},
			}
			byID[songID] = entry
			order = append(order, songID)
		}
		if artistID.Valid {
			entry.credits = append(entry.credits, chart.Artist{
				Name:       artistName.String,
				ExternalID: artistID.String,
				Role:       chart.Featured,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return chart.Chart{}, fmt.Errorf("iterate chart rows: %w", err)
	}
	if len(order) == 0 {
		return chart.Chart{}, fmt.Errorf("%s: %w", date, ErrNoChartFound)
	}

	tracks := make([]chart.Track, 0, len(order))
	for _, id := range order {
		entry := byID[id]
		track, err := chart.NewTrack(entry.name, entry.id, entry.credits)
		if err != nil {
			return chart.Chart{}, fmt.Errorf("rebuild track %s: %w", id, err)
		}
		tracks = append(tracks, track)
	}
	return chart.NewChart(date, tracks...), nil
}

// KnownArtistIDs returns the subset of ids that already have artist rows.
func (s *Store) KnownArtistIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	ctx = ensureContext(ctx)
	known := make(map[string]bool, len(ids))
	const chunk = 500
	for start := 0; start < len(ids); start += chunk {
		end := min(start+chunk, len(ids))
		part := ids[start:end]
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(part)), ",")
		args := make([]any, len(part))
		for i, id := range part {
			args[i] = id
		}
		rows, err := s.db.QueryContext(ctx,
			"SELECT external_id FROM artist WHERE external_id IN ("+placeholders+")", args...)
		if err != nil {
			return nil, fmt.Errorf("query known artists: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan artist id: %w", err)
			}
			known[id] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate artist ids: %w", err)
		}
		rows.Close()
	}
	return known, nil
}

// LatestChartDate returns the most recent chart date.
func (s *Store) LatestChartDate(ctx context.Context) (chart.Date, error) {
	ctx = ensureContext(ctx)
	var latest sql.NullString
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(chart_date) FROM chart").Scan(&latest); err != nil {
		return "", fmt.Errorf("query latest chart date: %w", err)
	}
	if !latest.Valid || latest.String == "" {
		return "", ErrNoChartFound
	}
	return chart.Date(latest.String), nil
}

// ChartDates lists every persisted chart date, newest first.
func (s *Store) ChartDates(ctx context.Context) ([]chart.Date, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT chart_date FROM chart ORDER BY chart_date DESC")
	if err != nil {
		return nil, fmt.Errorf("query chart dates: %w", err)
	}
	defer rows.Close()
	var dates []chart.Date
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan chart date: %w", err)
		}
		dates = append(dates, chart.Date(value))
	}
	return dates, rows.Err()
}
