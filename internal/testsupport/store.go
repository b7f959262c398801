package testsupport

import (
	"context"
	"testing"

	"rcg/internal/chart"
	"rcg/internal/config"
	"rcg/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustTrack builds a track whose first credit is primary. Credits are given as
// alternating id, name pairs.
func MustTrack(t testing.TB, songID, songName string, idNamePairs ...string) chart.Track {
	t.Helper()
	if len(idNamePairs) == 0 || len(idNamePairs)%2 != 0 {
		t.Fatalf("MustTrack %s: credits must be id/name pairs", songID)
	}
	credits := make([]chart.Artist, 0, len(idNamePairs)/2)
	for i := 0; i < len(idNamePairs); i += 2 {
		role := chart.Featured
		if i == 0 {
			role = chart.Primary
		}
		credits = append(credits, chart.Artist{ExternalID: idNamePairs[i], Name: idNamePairs[i+1], Role: role})
	}
	track, err := chart.NewTrack(songName, songID, credits)
	if err != nil {
		t.Fatalf("chart.NewTrack: %v", err)
	}
	return track
}

// SeedChart persists tracks for date together with their appearances and an
// artist row per credit labelled with gender.
func SeedChart(t testing.TB, st *store.Store, date chart.Date, gender string, tracks ...chart.Track) {
	t.Helper()
	var artists []store.ArtistRecord
	seen := make(map[string]bool)
	for _, track := range tracks {
		for _, credit := range track.Credits() {
			if seen[credit.ExternalID] {
				continue
			}
			seen[credit.ExternalID] = true
			artists = append(artists, store.ArtistRecord{
				ExternalID: credit.ExternalID,
				Name:       credit.Name,
				SourceA:    gender,
				SourceB:    gender,
				Gender:     gender,
			})
		}
	}
	_, err := st.Write(context.Background(), store.Batch{
		Date:        date,
		Tracks:      tracks,
		Artists:     artists,
		Appearances: chart.Appearances(tracks),
	})
	if err != nil {
		t.Fatalf("store.Write: %v", err)
	}
}
