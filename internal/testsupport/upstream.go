package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"rcg/internal/chart"
)

// Upstream fakes the Spotify, Last.fm, and Wikipedia endpoints on one test
// server. Point a config at it with WithEndpoints(u.URL()).
type Upstream struct {
	server *httptest.Server

	mu     sync.Mutex
	tracks []chart.Track
	lastfm map[string]string
	wiki   map[string]string
}

// NewUpstream starts a fake upstream that is closed with the test.
func NewUpstream(t testing.TB) *Upstream {
	t.Helper()
	u := &Upstream{lastfm: map[string]string{}, wiki: map[string]string{}}
	u.server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.server.Close)
	return u
}

// URL returns the server's base URL.
func (u *Upstream) URL() string { return u.server.URL }

// SetPlaylist replaces the live playlist.
func (u *Upstream) SetPlaylist(tracks ...chart.Track) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tracks = append([]chart.Track(nil), tracks...)
}

// SetBiography registers biography texts for an artist. An empty text means
// the source does not know the artist.
func (u *Upstream) SetBiography(artist, lastfmBio, wikiExtract string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if lastfmBio != "" {
		u.lastfm[artist] = lastfmBio
	}
	if wikiExtract != "" {
		u.wiki[artist] = wikiExtract
	}
}

type fakeArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type fakeTrack struct {
	Type    string       `json:"type"`
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Artists []fakeArtist `json:"artists"`
}

func toFakeTrack(track chart.Track) fakeTrack {
	out := fakeTrack{Type: "track", ID: track.ExternalID(), Name: track.SongName()}
	for _, credit := range track.Credits() {
		out.Artists = append(out.Artists, fakeArtist{ID: credit.ExternalID, Name: credit.Name})
	}
	return out
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	query := r.URL.Query()
	switch {
	case r.URL.Path == "/spotify/token":
		writeFake(w, http.StatusOK, map[string]any{"access_token": "tok", "token_type": "bearer", "expires_in": 3600})
	case strings.HasPrefix(r.URL.Path, "/spotify/v1/playlists/"):
		items := make([]map[string]any, 0, len(u.tracks))
		for _, track := range u.tracks {
			items = append(items, map[string]any{"track": toFakeTrack(track)})
		}
		writeFake(w, http.StatusOK, map[string]any{
			"items": items, "limit": 100, "offset": 0, "total": len(items), "next": nil,
		})
	case strings.HasPrefix(r.URL.Path, "/spotify/v1/tracks/"):
		id := strings.TrimPrefix(r.URL.Path, "/spotify/v1/tracks/")
		for _, track := range u.tracks {
			if track.ExternalID() == id {
				writeFake(w, http.StatusOK, toFakeTrack(track))
				return
			}
		}
		writeFake(w, http.StatusNotFound, map[string]any{"error": map[string]any{"status": 404, "message": "non existing id"}})
	case r.URL.Path == "/lastfm":
		artist := query.Get("artist")
		bio, ok := u.lastfm[artist]
		if !ok {
			writeFake(w, http.StatusOK, map[string]any{"error": 6, "message": "The artist you supplied could not be found"})
			return
		}
		writeFake(w, http.StatusOK, map[string]any{"artist": map[string]any{"name": artist, "bio": map[string]any{"content": bio}}})
	case r.URL.Path == "/wikipedia":
		title := query.Get("titles")
		extract, ok := u.wiki[title]
		page := map[string]any{"title": title, "missing": true}
		if ok {
			page = map[string]any{"pageid": 1, "title": title, "extract": extract}
		}
		writeFake(w, http.StatusOK, map[string]any{"query": map[string]any{"pages": []any{page}}})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeFake(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
