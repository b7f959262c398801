package chart_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"rcg/internal/chart"
)

func mustTrack(t *testing.T, songID string, artists ...string) chart.Track {
	t.Helper()
	credits := make([]chart.Artist, 0, len(artists))
	for idx, id := range artists {
		role := chart.Featured
		if idx == 0 {
			role = chart.Primary
		}
		credits = append(credits, chart.Artist{Name: "name-" + id, ExternalID: id, Role: role})
	}
	track, err := chart.NewTrack("song-"+songID, songID, credits)
	if err != nil {
		t.Fatalf("NewTrack(%s) failed: %v", songID, err)
	}
	return track
}

func TestNewTrackRequiresExactlyOnePrimary(t *testing.T) {
	_, err := chart.NewTrack("Song", "s1", []chart.Artist{{Name: "A", ExternalID: "a", Role: chart.Featured}})
	if !errors.Is(err, chart.ErrNoPrimaryArtist) {
		t.Fatalf("expected ErrNoPrimaryArtist, got %v", err)
	}
	_, err = chart.NewTrack("Song", "s1", nil)
	if !errors.Is(err, chart.ErrNoPrimaryArtist) {
		t.Fatalf("expected ErrNoPrimaryArtist for empty credits, got %v", err)
	}
	_, err = chart.NewTrack("Song", "s1", []chart.Artist{
		{Name: "A", ExternalID: "a", Role: chart.Primary},
		{Name: "B", ExternalID: "b", Role: chart.Primary},
	})
	if !errors.Is(err, chart.ErrMultiplePrimary) {
		t.Fatalf("expected ErrMultiplePrimary, got %v", err)
	}
	if _, err := chart.NewTrack("Song", " ", []chart.Artist{{ExternalID: "a", Role: chart.Primary}}); err == nil {
		t.Fatal("expected error for empty song id")
	}
}

func TestTrackCreditsAreCopied(t *testing.T) {
	credits := []chart.Artist{{Name: "A", ExternalID: "a", Role: chart.Primary}}
	track, err := chart.NewTrack("Song", "s1", credits)
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}
	credits[0].Name = "changed"
	got := track.Credits()
	got[0].Name = "also changed"
	if track.Primary().Name != "A" {
		t.Fatalf("track credits mutated: %q", track.Primary().Name)
	}
}

func TestWithCreditsReturnsNewTrack(t *testing.T) {
	base := mustTrack(t, "s1", "a")
	expanded := base.WithCredits(chart.Artist{Name: "M", ExternalID: "m", Role: chart.Primary})
	if len(base.Credits()) != 1 {
		t.Fatalf("base track changed: %v", base.Credits())
	}
	if len(expanded.Featured()) != 1 || expanded.Featured()[0].Role != chart.Featured {
		t.Fatalf("expected appended featured credit, got %v", expanded.Credits())
	}
	if expanded.Primary().ExternalID != "a" {
		t.Fatalf("primary changed: %v", expanded.Primary())
	}
	if !expanded.Same(base) {
		t.Fatal("expanded track should keep identity")
	}
}

func TestChartEqualityIgnoresOrderAndCredits(t *testing.T) {
	date := chart.Date("2023-01-01")
	a := chart.NewChart(date, mustTrack(t, "s1", "a"), mustTrack(t, "s2", "b"), mustTrack(t, "s3", "c"))
	b := chart.NewChart(date, mustTrack(t, "s3", "z"), mustTrack(t, "s1", "a", "q"), mustTrack(t, "s2", "b"))
	if !a.Equal(b) || !b.Equal(a) {
		t.Fatal("expected charts to be equal regardless of order and credits")
	}
	c := chart.NewChart(date, mustTrack(t, "s1", "a"), mustTrack(t, "s2", "b"))
	if a.Equal(c) {
		t.Fatal("expected charts with different tracks to differ")
	}
}

func TestNewChartFirstObservedWins(t *testing.T) {
	first := mustTrack(t, "s1", "a")
	second := mustTrack(t, "s1", "b", "c")
	c := chart.NewChart("2023-01-01", first, second)
	if c.Len() != 1 {
		t.Fatalf("expected one track, got %d", c.Len())
	}
	got, ok := c.Track("s1")
	if !ok || got.Primary().ExternalID != "a" {
		t.Fatalf("expected first credits to win, got %v", got.Credits())
	}
}

func TestDiffOfSelfIsEmpty(t *testing.T) {
	c := chart.NewChart("2023-01-01", mustTrack(t, "s1", "a"), mustTrack(t, "s2", "b"))
	added, removed := chart.Diff(c, c)
	if len(added) != 0 || len(removed) != 0 {
		t.Fatalf("expected empty diff, got added=%v removed=%v", added, removed)
	}
}

func TestDiffReportsAddedAndRemoved(t *testing.T) {
	prev := chart.NewChart("2023-01-01", mustTrack(t, "s1", "a"), mustTrack(t, "s2", "b"))
	next := chart.NewChart("2023-01-02", mustTrack(t, "s2", "b"), mustTrack(t, "s3", "c"))
	added, removed := chart.Diff(next, prev)
	if len(added) != 1 || added[0].ExternalID() != "s3" {
		t.Fatalf("unexpected added: %v", added)
	}
	if len(removed) != 1 || removed[0].ExternalID() != "s1" {
		t.Fatalf("unexpected removed: %v", removed)
	}
	union := next.Union(prev)
	if union.Len() != 3 || union.Date() != "2023-01-02" {
		t.Fatalf("unexpected union: %v (%s)", union.IDs(), union.Date())
	}
}

func TestAppearancesOnePerPair(t *testing.T) {
	track := mustTrack(t, "s1", "a", "b")
	dup := track.WithCredits(chart.Artist{Name: "again", ExternalID: "b"})
	apps := chart.Appearances([]chart.Track{dup, mustTrack(t, "s2", "a")})
	if len(apps) != 3 {
		t.Fatalf("expected 3 appearances, got %d: %v", len(apps), apps)
	}
	if apps[0].Role != chart.Primary || apps[1].Role != chart.Featured {
		t.Fatalf("unexpected roles: %v", apps)
	}
	if apps[1].ArtistName != "name-b" {
		t.Fatalf("expected first credit for pair to win, got %q", apps[1].ArtistName)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"2023-01-01", true},
		{" 2024-02-29 ", true},
		{"2023-02-30", false},
		{"2023-1-1", false},
		{"01/01/2023", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := chart.ParseDate(tc.input)
		if tc.ok && err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", tc.input, err)
		}
		if !tc.ok && !errors.Is(err, chart.ErrDateFormat) {
			t.Fatalf("ParseDate(%q) expected ErrDateFormat, got %v", tc.input, err)
		}
	}
}

func TestZoneClockUsesLocation(t *testing.T) {
	clock, err := chart.NewZoneClock("America/New_York")
	if err != nil {
		t.Fatalf("NewZoneClock failed: %v", err)
	}
	clock.Now = func() time.Time { return time.Date(2023, 1, 2, 3, 0, 0, 0, time.UTC) }
	if got := clock.Today(); got != "2023-01-01" {
		t.Fatalf("expected previous day in New York, got %s", got)
	}
	if got := chart.Date("2023-03-01").AddDays(-1); got != "2023-02-28" {
		t.Fatalf("unexpected AddDays result: %s", got)
	}
	if got := chart.Date("2023-01-02").Long(); got != "January 2, 2023" {
		t.Fatalf("unexpected long form: %s", got)
	}
}

func TestTrackJSONRoundTripKeepsRoles(t *testing.T) {
	track, err := chart.NewTrack("Song", "s1", []chart.Artist{
		{Name: "A", ExternalID: "a1", Role: chart.Primary},
		{Name: "B", ExternalID: "b1", Role: chart.Featured},
	})
	if err != nil {
		t.Fatalf("NewTrack: %v", err)
	}
	data, err := json.Marshal(track)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"role":"primary"`) {
		t.Fatalf("expected textual role, got %s", data)
	}
	var decoded chart.Track
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Primary().ExternalID != "a1" || len(decoded.Featured()) != 1 {
		t.Fatalf("unexpected decoded track: %v", decoded)
	}
	if err := json.Unmarshal([]byte(`{"song_id":"s2","artists":[{"id":"x","role":"featured"}]}`), &decoded); !errors.Is(err, chart.ErrNoPrimaryArtist) {
		t.Fatalf("expected ErrNoPrimaryArtist, got %v", err)
	}
}
