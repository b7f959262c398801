package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"rcg/internal/snapshot"
)

const pageLimit = 100

// Config describes how to reach the playlist.
type Config struct {
	ClientID     string
	ClientSecret string
	PlaylistID   string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
}

// Source fetches playlist snapshots.
type Source struct {
	client     *spotifyapi.Client
	playlistID spotifyapi.ID
}

// New authenticates lazily: the token is requested on the first API call and
// refreshed by the oauth2 transport when it expires.
func New(ctx context.Context, cfg Config) (*Source, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify client id and secret required")
	}
	playlistID := strings.TrimSpace(cfg.PlaylistID)
	if playlistID == "" {
		return nil, errors.New("spotify playlist id required")
	}
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	credentials := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	base := &http.Client{Timeout: timeout}
	httpClient := credentials.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	httpClient.Timeout = timeout

	var opts []spotifyapi.ClientOption
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, spotifyapi.WithBaseURL(baseURL))
	}
	return &Source{
		client:     spotifyapi.New(httpClient, opts...),
		playlistID: spotifyapi.ID(playlistID),
	}, nil
}

// Entries returns the playlist's tracks in playlist order. Podcast episodes
// and removed tracks carry no track payload and are skipped.
func (s *Source) Entries(ctx context.Context) ([]snapshot.Entry, error) {
	page, err := s.client.GetPlaylistItems(ctx, s.playlistID, spotifyapi.Limit(pageLimit))
	if err != nil {
		return nil, fmt.Errorf("fetch playlist %s: %w", s.playlistID, err)
	}
	var entries []snapshot.Entry
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				continue
			}
			entries = append(entries, entryFromTrack(item.Track.Track.SimpleTrack))
		}
		err := s.client.NextPage(ctx, page)
		if errors.Is(err, spotifyapi.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetch playlist %s next page: %w", s.playlistID, err)
		}
	}
	return entries, nil
}

// Entry fetches a single track by song id.
func (s *Source) Entry(ctx context.Context, songID string) (snapshot.Entry, error) {
	songID = strings.TrimSpace(songID)
	if songID == "" {
		return snapshot.Entry{}, errors.New("song id must not be empty")
	}
	track, err := s.client.GetTrack(ctx, spotifyapi.ID(songID))
	if err != nil {
		return snapshot.Entry{}, fmt.Errorf("fetch track %s: %w", songID, err)
	}
	return entryFromTrack(track.SimpleTrack), nil
}

func entryFromTrack(track spotifyapi.SimpleTrack) snapshot.Entry {
	entry := snapshot.Entry{
		SongID:   string(track.ID),
		SongName: track.Name,
		Artists:  make([]snapshot.Credit, 0, len(track.Artists)),
	}
	for _, artist := range track.Artists {
		entry.Artists = append(entry.Artists, snapshot.Credit{
			ArtistID:   string(artist.ID),
			ArtistName: artist.Name,
		})
	}
	return entry
}
