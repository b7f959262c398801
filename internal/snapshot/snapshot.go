// Package snapshot turns a raw playlist payload into a canonical Chart.
//
// Playlist order defines credit roles: the first credited artist of an entry
// is Primary and every other credit is Featured. Normalization is a pure
// transformation; group expansion and any store access happen later.
package snapshot

import (
	"errors"
	"fmt"
	"strings"

	"rcg/internal/chart"
)

// ErrMalformedSnapshot reports an entry that cannot be turned into a track.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Credit is one artist credit as returned by the playlist source.
type Credit struct {
	ArtistID   string `json:"artist_id"`
	ArtistName string `json:"artist_name"`
}

// Entry is one playlist position.
type Entry struct {
	SongID   string   `json:"song_id"`
	SongName string   `json:"song_name"`
	Artists  []Credit `json:"artists"`
}

// Normalize converts entries into a chart for the supplied date. The first
// malformed entry aborts the whole snapshot.
func Normalize(date chart.Date, entries []Entry) (chart.Chart, error) {
	tracks := make([]chart.Track, 0, len(entries))
	for idx, entry := range entries {
		track, err := NormalizeEntry(entry)
		if err != nil {
			return chart.Chart{}, fmt.Errorf("entry %d: %w", idx+1, err)
		}
		tracks = append(tracks, track)
	}
	return chart.NewChart(date, tracks...), nil
}

// NormalizeEntry converts a single entry into a track.
func NormalizeEntry(entry Entry) (chart.Track, error) {
	songID := strings.TrimSpace(entry.SongID)
	if songID == "" {
		return chart.Track{}, fmt.Errorf("%w: song %q has no id", ErrMalformedSnapshot, entry.SongName)
	}
	if len(entry.Artists) == 0 {
		return chart.Track{}, fmt.Errorf("%w: song %s has no artist credits", ErrMalformedSnapshot, songID)
	}
	credits := make([]chart.Artist, 0, len(entry.Artists))
	for idx, credit := range entry.Artists {
		artistID := strings.TrimSpace(credit.ArtistID)
		if artistID == "" {
			return chart.Track{}, fmt.Errorf("%w: song %s credit %d has no artist id", ErrMalformedSnapshot, songID, idx+1)
		}
		role := chart.Featured
		if idx == 0 {
			role = chart.Primary
		}
		credits = append(credits, chart.Artist{
			Name:       strings.TrimSpace(credit.ArtistName),
			ExternalID: artistID,
			Role:       role,
		})
	}
	track, err := chart.NewTrack(strings.TrimSpace(entry.SongName), songID, credits)
	if err != nil {
		return chart.Track{}, err
	}
	return track, nil
}
