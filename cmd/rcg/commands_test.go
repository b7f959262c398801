package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"rcg/internal/apperr"
	"rcg/internal/chart"
	"rcg/internal/report"
	"rcg/internal/store"
	"rcg/internal/testsupport"
)

func TestUpdateThenReadCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.upstream.SetPlaylist(
		testsupport.MustTrack(t, "s1", "Denial Is A River", "a1", "Doechii"),
		testsupport.MustTrack(t, "s2", "Type Shit (feat. Travis Scott)", "a2", "Future", "a3", "Travis Scott"),
	)
	env.upstream.SetBiography("Doechii", "She is a rapper from Tampa.", "")
	env.upstream.SetBiography("Future", "He is a rapper from Atlanta.", "")

	out, _, err := runCLI(t, []string{"update", "--date", "2024-05-10"}, env.configPath)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	requireContains(t, out, "Updated chart for May 10, 2024")
	requireContains(t, out, "2 track(s) added, 3 new artist(s)")

	out, _, err = runCLI(t, []string{"update", "--date", "2024-05-10"}, env.configPath)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	requireContains(t, out, "No update for 2024-05-10")

	out, _, err = runCLI(t, []string{"show"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Chart for May 10, 2024")
	requireContains(t, out, "Travis Scott")

	out, _, err = runCLI(t, []string{"--json", "counts"}, env.configPath)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	var counts report.CountsView
	if err := json.Unmarshal([]byte(out), &counts); err != nil {
		t.Fatalf("decode counts: %v\n%s", err, out)
	}
	if counts.Total != 3 || len(counts.Rows) != 4 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	out, _, err = runCLI(t, []string{"max-date"}, env.configPath)
	if err != nil {
		t.Fatalf("max-date: %v", err)
	}
	requireContains(t, out, "2024-05-10")

	out, _, err = runCLI(t, []string{"tally"}, env.configPath)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	requireContains(t, out, "Doechii")
}

func TestDiffAndExitCodes(t *testing.T) {
	env := setupCLITestEnv(t)
	env.withStore(t, func(st *store.Store) {
		shared := testsupport.MustTrack(t, "s1", "Shared", "a1", "Drake")
		testsupport.SeedChart(t, st, "2024-05-09", "m", shared, testsupport.MustTrack(t, "s2", "Gone", "a2", "SZA"))
		testsupport.SeedChart(t, st, "2024-05-10", "m", shared, testsupport.MustTrack(t, "s3", "Fresh", "a3", "Doechii"))
	})

	out, _, err := runCLI(t, []string{"dates"}, env.configPath)
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if out != "2024-05-10\n2024-05-09\n" {
		t.Fatalf("expected newest-first dates, got %q", out)
	}

	out, _, err = runCLI(t, []string{"diff", "2024-05-09", "2024-05-10"}, env.configPath)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	requireContains(t, out, "1 added, 1 removed")
	requireContains(t, out, "+ Fresh - Doechii")
	requireContains(t, out, "- Gone - SZA")

	_, _, err = runCLI(t, []string{"show", "--date", "2020-01-01"}, env.configPath)
	if code := apperr.ExitCode(err); code != 3 {
		t.Fatalf("expected exit code 3 for missing chart, got %d (%v)", code, err)
	}
	_, _, err = runCLI(t, []string{"diff", "yesterday", "2024-05-10"}, env.configPath)
	if code := apperr.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2 for bad date, got %d (%v)", code, err)
	}
}

func TestSetGenderAndGroups(t *testing.T) {
	env := setupCLITestEnv(t)
	env.withStore(t, func(st *store.Store) {
		testsupport.SeedChart(t, st, "2024-05-10", "x",
			testsupport.MustTrack(t, "s1", "Song", "g1", "Migos", "a1", "Offset"))
	})

	out, _, err := runCLI(t, []string{"set-gender", "Offset", "male"}, env.configPath)
	if err != nil {
		t.Fatalf("set-gender: %v", err)
	}
	requireContains(t, out, "Set Offset to m (male) (1 row(s))")

	_, _, err = runCLI(t, []string{"set-gender", "Offset", "l"}, env.configPath)
	if code := apperr.ExitCode(err); code != 2 {
		t.Fatalf("expected sentinel label to be rejected with exit 2, got %d (%v)", code, err)
	}
	_, _, err = runCLI(t, []string{"set-gender", "Nobody", "f"}, env.configPath)
	if code := apperr.ExitCode(err); code != 3 {
		t.Fatalf("expected unknown artist exit 3, got %d (%v)", code, err)
	}

	out, _, err = runCLI(t, []string{"group", "add", "g1", "Quavo", "m1"}, env.configPath)
	if err != nil {
		t.Fatalf("group add: %v", err)
	}
	requireContains(t, out, "Added Quavo to group g1")
	out, _, err = runCLI(t, []string{"group", "add", "g1", "Quavo", "m1"}, env.configPath)
	if err != nil {
		t.Fatalf("repeat group add: %v", err)
	}
	requireContains(t, out, "already a member")

	out, _, err = runCLI(t, []string{"group", "label"}, env.configPath)
	if err != nil {
		t.Fatalf("group label: %v", err)
	}
	requireContains(t, out, "Labelled 1 collective(s)")

	env.withStore(t, func(st *store.Store) {
		rec, err := st.Artist(t.Context(), "g1")
		if err != nil {
			t.Fatalf("Artist: %v", err)
		}
		if rec.Gender != "g" {
			t.Fatalf("expected collective label, got %q", rec.Gender)
		}
		members, err := st.Members(t.Context(), "g1")
		if err != nil || len(members) != 1 || members[0] != (chart.Member{Name: "Quavo", ExternalID: "m1"}) {
			t.Fatalf("unexpected members %v (%v)", members, err)
		}
	})
}

func TestGenderCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.upstream.SetBiography("Doja Cat", "", "Amala Dlamini, known as Doja Cat, is an American rapper. Her style...")

	out, _, err := runCLI(t, []string{"--json", "gender", "Doja", "Cat"}, env.configPath)
	if err != nil {
		t.Fatalf("gender: %v", err)
	}
	var result struct {
		Artist  string `json:"artist"`
		SourceA string `json:"source_a"`
		SourceB string `json:"source_b"`
		Gender  string `json:"gender"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if result.Artist != "Doja Cat" || result.SourceA != "l" || result.SourceB != "f" || result.Gender != "f" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestDatesOnEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"--json", "dates"}, env.configPath)
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if out != "[]\n" {
		t.Fatalf("expected empty JSON list, got %q", out)
	}
}

func TestUpdateWithoutCredentials(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Spotify.ClientID = ""
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"update"}, env.configPath)
	if code := apperr.ExitCode(err); code != 2 {
		t.Fatalf("expected configuration exit code 2, got %d (%v)", code, err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Spotify credentials: present")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}
