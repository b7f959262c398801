package store

import (
	"errors"

	"rcg/internal/chart"
)

var (
	// ErrNoChartFound reports a date with no persisted chart rows.
	ErrNoChartFound = errors.New("no chart found")
	// ErrArtistNotFound reports an artist id or name with no artist row.
	ErrArtistNotFound = errors.New("artist not found")
)

// ArtistRecord is one artist row. SourceA and SourceB keep the raw
// per-source labels next to the resolved Gender.
type ArtistRecord struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"artist_name"`
	SourceA    string `json:"source_a_gender"`
	SourceB    string `json:"source_b_gender"`
	Gender     string `json:"gender"`
}

// Batch is everything one reconciliation writes.
type Batch struct {
	Date        chart.Date
	Tracks      []chart.Track
	Artists     []ArtistRecord
	Appearances []chart.Appearance
}

// WriteSummary counts rows actually inserted; ignored duplicates are not counted.
type WriteSummary struct {
	ChartRows   int64 `json:"chart_rows"`
	Artists     int64 `json:"artists"`
	Appearances int64 `json:"appearances"`
}

// Total returns the number of inserted rows across tables.
func (w WriteSummary) Total() int64 {
	return w.ChartRows + w.Artists + w.Appearances
}

// GenderCount is the number of chart appearances per gender label.
type GenderCount struct {
	Gender string `json:"gender"`
	Total  int    `json:"total"`
}

// TallyRow is one artist's appearance count on a chart.
type TallyRow struct {
	ArtistID    string `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	Gender      string `json:"gender"`
	Appearances int    `json:"appearances"`
}

// FeatureRow is one credited artist on one charted song.
type FeatureRow struct {
	SongID            string `json:"song_id"`
	SongName          string `json:"song_name"`
	PrimaryArtistName string `json:"primary_artist_name"`
	ArtistID          string `json:"artist_id"`
	ArtistName        string `json:"artist_name"`
	IsPrimary         bool   `json:"is_primary"`
	Gender            string `json:"gender"`
}

// TableCounts reports row counts for every table.
type TableCounts struct {
	ChartRows   int `json:"chart_rows"`
	Artists     int `json:"artists"`
	Appearances int `json:"appearances"`
	GroupRows   int `json:"group_rows"`
}
