package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"rcg/internal/chart"
	"rcg/internal/store"
	"rcg/internal/testsupport"
)

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	counts, err := reopened.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts != (store.TableCounts{}) {
		t.Fatalf("expected empty tables, got %+v", counts)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rcg.db")
	st, err := store.OpenPath(dbPath)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	st.Close()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("stamp version: %v", err)
	}
	db.Close()

	if _, err := store.OpenPath(dbPath); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestWriteAndLoadChartRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	date := chart.Date("2024-03-01")

	tracks := []chart.Track{
		testsupport.MustTrack(t, "s1", "First (feat. B)", "a1", "A", "a2", "B"),
		testsupport.MustTrack(t, "s2", "Second", "a2", "B"),
	}
	testsupport.SeedChart(t, st, date, "m", tracks...)

	loaded, err := st.LoadChart(ctx, date)
	if err != nil {
		t.Fatalf("LoadChart: %v", err)
	}
	want := chart.NewChart(date, tracks...)
	if !loaded.Equal(want) {
		t.Fatalf("loaded chart %v does not equal %v", loaded.IDs(), want.IDs())
	}
	first, ok := loaded.Track("s1")
	if !ok {
		t.Fatal("expected s1 in loaded chart")
	}
	if first.Primary().ExternalID != "a1" || len(first.Featured()) != 1 || first.Featured()[0].ExternalID != "a2" {
		t.Fatalf("unexpected credits: %v", first.Credits())
	}
}

func TestLoadChartMissingDate(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, err := st.LoadChart(context.Background(), chart.Date("2020-01-01"))
	if !errors.Is(err, store.ErrNoChartFound) {
		t.Fatalf("expected ErrNoChartFound, got %v", err)
	}
}

func TestInsertsAreIdempotent(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	date := chart.Date("2024-03-01")
	track := testsupport.MustTrack(t, "s1", "Song", "a1", "A", "a2", "B")

	for i := 0; i < 2; i++ {
		n, err := st.InsertChartRows(ctx, date, []chart.Track{track})
		if err != nil {
			t.Fatalf("InsertChartRows: %v", err)
		}
		if want := int64(1 - i); n != want {
			t.Fatalf("pass %d: expected %d chart rows inserted, got %d", i, want, n)
		}
		n, err = st.InsertAppearances(ctx, chart.Appearances([]chart.Track{track}))
		if err != nil {
			t.Fatalf("InsertAppearances: %v", err)
		}
		if want := int64(2 * (1 - i)); n != want {
			t.Fatalf("pass %d: expected %d appearances inserted, got %d", i, want, n)
		}
		n, err = st.InsertArtists(ctx, []store.ArtistRecord{{ExternalID: "a1", Name: "A", Gender: "f"}})
		if err != nil {
			t.Fatalf("InsertArtists: %v", err)
		}
		if want := int64(1 - i); n != want {
			t.Fatalf("pass %d: expected %d artists inserted, got %d", i, want, n)
		}
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.ChartRows != 1 || counts.Appearances != 2 || counts.Artists != 1 {
		t.Fatalf("unexpected counts after replay: %+v", counts)
	}
}

func TestWriteRollsBackOnFailure(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	track := testsupport.MustTrack(t, "s1", "Song", "a1", "A")

	_, err := st.Write(ctx, store.Batch{
		Date:        chart.Date("2024-03-01"),
		Tracks:      []chart.Track{track},
		Appearances: chart.Appearances([]chart.Track{track}),
		Artists:     []store.ArtistRecord{{ExternalID: "a1", Name: "A"}, {Name: "No Id"}},
	})
	if err == nil {
		t.Fatal("expected write to fail for artist without id")
	}
	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts != (store.TableCounts{}) {
		t.Fatalf("expected nothing persisted, got %+v", counts)
	}
}

func TestKnownArtistIDs(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := st.InsertArtists(ctx, []store.ArtistRecord{{ExternalID: "a1", Name: "A"}, {ExternalID: "a3", Name: "C"}}); err != nil {
		t.Fatalf("InsertArtists: %v", err)
	}
	known, err := st.KnownArtistIDs(ctx, []string{"a1", "a2", "a3"})
	if err != nil {
		t.Fatalf("KnownArtistIDs: %v", err)
	}
	if !known["a1"] || known["a2"] || !known["a3"] {
		t.Fatalf("unexpected known set: %v", known)
	}
	rec, err := st.Artist(ctx, "a1")
	if err != nil {
		t.Fatalf("Artist: %v", err)
	}
	if rec.Gender != "x" {
		t.Fatalf("expected default gender x, got %q", rec.Gender)
	}
}

func TestGroupMembersAndLabels(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for _, member := range []chart.Member{{Name: "One", ExternalID: "m1"}, {Name: "Two", ExternalID: "m2"}} {
		added, err := st.AddGroupMember(ctx, "grp", member)
		if err != nil || !added {
			t.Fatalf("AddGroupMember(%v): added=%v err=%v", member, added, err)
		}
	}
	if added, err := st.AddGroupMember(ctx, "grp", chart.Member{Name: "One", ExternalID: "m1"}); err != nil || added {
		t.Fatalf("expected duplicate membership to be ignored, added=%v err=%v", added, err)
	}
	members, err := st.Members(ctx, "grp")
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 2 || members[0].ExternalID != "m1" || members[1].ExternalID != "m2" {
		t.Fatalf("unexpected members: %+v", members)
	}
	none, err := st.Members(ctx, "solo")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no members for solo artist, got %v err=%v", none, err)
	}

	if _, err := st.InsertArtists(ctx, []store.ArtistRecord{{ExternalID: "grp", Name: "Crew", Gender: "n"}}); err != nil {
		t.Fatalf("InsertArtists: %v", err)
	}
	n, err := st.LabelCollectives(ctx, "g")
	if err != nil || n != 1 {
		t.Fatalf("LabelCollectives: n=%d err=%v", n, err)
	}
	rec, _ := st.Artist(ctx, "grp")
	if rec.Gender != "g" || rec.SourceA != "" {
		t.Fatalf("unexpected collective row: %+v", rec)
	}
}

func TestSetArtistGender(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := st.InsertArtists(ctx, []store.ArtistRecord{{ExternalID: "a1", Name: "Ice Spice", SourceA: "p", SourceB: "x", Gender: "x"}}); err != nil {
		t.Fatalf("InsertArtists: %v", err)
	}
	if _, err := st.SetArtistGender(ctx, "Ice Spice", "f"); err != nil {
		t.Fatalf("SetArtistGender: %v", err)
	}
	rec, _ := st.Artist(ctx, "a1")
	if rec.Gender != "f" || rec.SourceA != "p" {
		t.Fatalf("unexpected artist after override: %+v", rec)
	}
	if _, err := st.SetArtistGender(ctx, "nobody", "f"); !errors.Is(err, store.ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}
}

func TestReportQueries(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	date := chart.Date("2024-03-01")
	testsupport.SeedChart(t, st, date, "m",
		testsupport.MustTrack(t, "s1", "One (feat. B)", "a1", "A", "a2", "B"),
		testsupport.MustTrack(t, "s2", "Two", "a1", "A"),
	)
	if _, err := st.SetArtistGender(ctx, "a2", "f"); err != nil {
		t.Fatalf("SetArtistGender: %v", err)
	}

	counts, err := st.GenderCounts(ctx, date)
	if err != nil {
		t.Fatalf("GenderCounts: %v", err)
	}
	got := map[string]int{}
	for _, c := range counts {
		got[c.Gender] = c.Total
	}
	if got["m"] != 2 || got["f"] != 1 {
		t.Fatalf("unexpected gender counts: %+v", counts)
	}

	tally, err := st.Tally(ctx, date)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if len(tally) != 2 || tally[0].ArtistID != "a1" || tally[0].Appearances != 2 {
		t.Fatalf("unexpected tally: %+v", tally)
	}

	rows, err := st.FeatureRows(ctx, date)
	if err != nil {
		t.Fatalf("FeatureRows: %v", err)
	}
	if len(rows) != 3 || !rows[0].IsPrimary || rows[1].ArtistID != "a2" || rows[1].IsPrimary {
		t.Fatalf("unexpected feature rows: %+v", rows)
	}

	latest, err := st.LatestChartDate(ctx)
	if err != nil || latest != date {
		t.Fatalf("LatestChartDate = %q, %v", latest, err)
	}
	dates, err := st.ChartDates(ctx)
	if err != nil || len(dates) != 1 {
		t.Fatalf("ChartDates = %v, %v", dates, err)
	}
}

func TestLatestChartDateEmpty(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := st.LatestChartDate(context.Background()); !errors.Is(err, store.ErrNoChartFound) {
		t.Fatalf("expected ErrNoChartFound, got %v", err)
	}
}
