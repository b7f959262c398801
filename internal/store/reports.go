package store

import (
	"context"
	"database/sql"
	"fmt"

	"rcg/internal/chart"
)

// GenderCounts counts chart appearances on date per artist gender. Appearance
// rows whose artist has no artist row count under the empty label.
func (s *Store) GenderCounts(ctx context.Context, date chart.Date) ([]GenderCount, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(a.gender, ''), COUNT(*)
		FROM chart c
		INNER JOIN song s ON s.song_external_id = c.song_external_id
		LEFT JOIN artist a ON a.external_id = s.artist_external_id
		WHERE c.chart_date = ?
		GROUP BY COALESCE(a.gender, '')
		ORDER BY COUNT(*) DESC, 1`, date.String())
	if err != nil {
		return nil, fmt.Errorf("query gender counts %s: %w", date, err)
	}
	defer rows.Close()
	var counts []GenderCount
	for rows.Next() {
		var count GenderCount
		if err := rows.Scan(&count.Gender, &count.Total); err != nil {
			return nil, fmt.Errorf("scan gender count: %w", err)
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

// Tally counts each artist's appearances on date, most frequent first.
func (s *Store) Tally(ctx context.Context, date chart.Date) ([]TallyRow, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.external_id, a.artist_name, a.gender, COUNT(c.song_external_id)
		FROM chart c
		INNER JOIN song s ON s.song_external_id = c.song_external_id
		INNER JOIN artist a ON a.external_id = s.artist_external_id
		WHERE c.chart_date = ?
		GROUP BY a.external_id, a.artist_name, a.gender
		ORDER BY COUNT(c.song_external_id) DESC, a.artist_name`, date.String())
	if err != nil {
		return nil, fmt.Errorf("query tally %s: %w", date, err)
	}
	defer rows.Close()
	var tally []TallyRow
	for rows.Next() {
		var row TallyRow
		if err := rows.Scan(&row.ArtistID, &row.ArtistName, &row.Gender, &row.Appearances); err != nil {
			return nil, fmt.Errorf("scan tally row: %w", err)
		}
		tally = append(tally, row)
	}
	return tally, rows.Err()
}

// FeatureRows lists every credited artist on every song charted on date, in
// chart order then credit order.
func (s *Store) FeatureRows(ctx context.Context, date chart.Date) ([]FeatureRow, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.song_external_id, c.song_name, c.primary_artist_name,
		       s.artist_external_id, s.artist_name, s.is_primary, a.gender
		FROM chart c
		INNER JOIN song s ON s.song_external_id = c.song_external_id
		LEFT JOIN artist a ON a.external_id = s.artist_external_id
		WHERE c.chart_date = ?
		ORDER BY c.id, s.is_primary DESC, s.id`, date.String())
	if err != nil {
		return nil, fmt.Errorf("query features %s: %w", date, err)
	}
	defer rows.Close()
	var out []FeatureRow
	for rows.Next() {
		var (
			row       FeatureRow
			isPrimary int
			genderVal sql.NullString
		)
		if err := rows.Scan(&row.SongID, &row.SongName, &row.PrimaryArtistName,
			&row.ArtistID, &row.ArtistName, &isPrimary, &genderVal); err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}
		row.IsPrimary = isPrimary == 1
		row.Gender = genderVal.String
		out = append(out, row)
	}
	return out, rows.Err()
}

// Counts returns row counts for every table.
func (s *Store) Counts(ctx context.Context) (TableCounts, error) {
	ctx = ensureContext(ctx)
	var counts TableCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM chart),
			(SELECT COUNT(*) FROM artist),
			(SELECT COUNT(*) FROM song),
			(SELECT COUNT(*) FROM group_table)`,
	).Scan(&counts.ChartRows, &counts.Artists, &counts.Appearances, &counts.GroupRows)
	if err != nil {
		return TableCounts{}, fmt.Errorf("count rows: %w", err)
	}
	return counts, nil
}
