package spotify_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"rcg/internal/spotify"
)

func newPlaylistServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var tokenRequests atomic.Int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/token":
			tokenRequests.Add(1)
			_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
			return
		case r.Header.Get("Authorization") != "Bearer tok":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"status":401,"message":"no token"}}`))
			return
		case strings.HasPrefix(r.URL.Path, "/v1/playlists/pl/"):
			if r.URL.Query().Get("offset") == "2" {
				_, _ = w.Write([]byte(`{"items":[
					{"track":{"type":"track","id":"s3","name":"Third","artists":[{"id":"a3","name":"Three"}]}}
				],"limit":2,"offset":2,"total":3,"next":null}`))
				return
			}
			next := fmt.Sprintf("%s/v1/playlists/pl/tracks?offset=2&limit=2", server.URL)
			_, _ = fmt.Fprintf(w, `{"items":[
				{"track":{"type":"track","id":"s1","name":"First (feat. Two)","artists":[{"id":"a1","name":"One"},{"id":"a2","name":"Two"}]}},
				{"track":{"type":"track","id":"s2","name":"Second","artists":[{"id":"a2","name":"Two"}]}}
			],"limit":2,"offset":0,"total":3,"next":%q}`, next)
			return
		case r.URL.Path == "/v1/tracks/s9":
			_, _ = w.Write([]byte(`{"id":"s9","name":"Single","artists":[{"id":"a9","name":"Nine"},{"id":"a1","name":"One"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"status":404,"message":"not found"}}`))
	}))
	t.Cleanup(server.Close)
	return server, &tokenRequests
}

func newSource(t *testing.T, server *httptest.Server) *spotify.Source {
	t.Helper()
	source, err := spotify.New(context.Background(), spotify.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		PlaylistID:   "pl",
		BaseURL:      server.URL + "/v1",
		TokenURL:     server.URL + "/api/token",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return source
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := spotify.New(context.Background(), spotify.Config{PlaylistID: "pl"}); err == nil {
		t.Fatal("expected error when credentials missing")
	}
}

func TestEntriesPagesThroughPlaylist(t *testing.T) {
	server, tokens := newPlaylistServer(t)
	source := newSource(t, server)

	entries, err := source.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	first := entries[0]
	if first.SongID != "s1" || len(first.Artists) != 2 || first.Artists[0].ArtistID != "a1" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if entries[2].SongID != "s3" {
		t.Fatalf("expected second page entry, got %+v", entries[2])
	}
	if tokens.Load() != 1 {
		t.Fatalf("expected a single token request, got %d", tokens.Load())
	}
}

func TestEntryFetchesSingleTrack(t *testing.T) {
	server, _ := newPlaylistServer(t)
	source := newSource(t, server)

	entry, err := source.Entry(context.Background(), "s9")
	if err != nil {
		t.Fatalf("Entry returned error: %v", err)
	}
	if entry.SongName != "Single" || len(entry.Artists) != 2 || entry.Artists[0].ArtistName != "Nine" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestEntryNotFound(t *testing.T) {
	server, _ := newPlaylistServer(t)
	source := newSource(t, server)
	if _, err := source.Entry(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown track")
	}
}
