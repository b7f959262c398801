package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"rcg/internal/biography/lastfm"
	"rcg/internal/biography/wikipedia"
	"rcg/internal/chart"
	"rcg/internal/config"
	"rcg/internal/gender"
	"rcg/internal/groups"
	"rcg/internal/reconcile"
	"rcg/internal/runlock"
	"rcg/internal/spotify"
	"rcg/internal/store"
)

// Option adjusts how integrations are built.
type Option func(*options)

type options struct {
	httpClient *http.Client
	playlist   reconcile.PlaylistSource
	classifier reconcile.Classifier
}

// WithHTTPClient replaces the HTTP client used by the biography sources.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithPlaylist replaces the Spotify playlist source.
func WithPlaylist(source reconcile.PlaylistSource) Option {
	return func(o *options) { o.playlist = source }
}

// WithClassifier replaces the biography-backed classifier.
func WithClassifier(classifier reconcile.Classifier) Option {
	return func(o *options) { o.classifier = classifier }
}

// NewClassifier builds the two-source gender classifier.
func NewClassifier(cfg *config.Config, logger *slog.Logger, opts ...Option) (*gender.Classifier, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.RequireLastFM(); err != nil {
		return nil, err
	}
	o := collect(cfg, opts)
	sourceA, err := lastfm.New(cfg.LastFM.APIKey, cfg.LastFM.BaseURL, cfg.LastFM.Language,
		lastfm.WithHTTPClient(o.httpClient))
	if err != nil {
		return nil, err
	}
	sourceB, err := wikipedia.New(cfg.Wikipedia.BaseURL, cfg.Wikipedia.UserAgent, cfg.Wikipedia.DisambiguationHint,
		wikipedia.WithHTTPClient(o.httpClient))
	if err != nil {
		return nil, err
	}
	return gender.NewClassifier(sourceA, sourceB, logger), nil
}

// NewPlaylist builds the Spotify playlist source.
func NewPlaylist(ctx context.Context, cfg *config.Config) (*spotify.Source, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.RequireSpotify(); err != nil {
		return nil, err
	}
	return spotify.New(ctx, spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		PlaylistID:   cfg.Spotify.PlaylistID,
		BaseURL:      cfg.Spotify.BaseURL,
		TokenURL:     cfg.Spotify.TokenURL,
		Timeout:      cfg.RequestTimeout(),
	})
}

// NewEngine wires a reconciliation engine over st. Credentials are required
// for whichever integrations are not replaced by options.
func NewEngine(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) (*reconcile.Engine, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("config and store are required")
	}
	o := collect(cfg, opts)

	playlist := o.playlist
	if playlist == nil {
		source, err := NewPlaylist(ctx, cfg)
		if err != nil {
			return nil, err
		}
		playlist = source
	}
	classifier := o.classifier
	if classifier == nil {
		built, err := NewClassifier(cfg, logger, opts...)
		if err != nil {
			return nil, err
		}
		classifier = built
	}
	clock, err := chart.NewZoneClock(cfg.Chart.Timezone)
	if err != nil {
		return nil, err
	}
	return reconcile.New(reconcile.Dependencies{
		Playlist:   playlist,
		Store:      st,
		Classifier: classifier,
		Expander:   groups.NewExpander(st, cfg.Chart.GroupDepth, logger),
		Lock:       runlock.New(cfg.LockPath()),
		Clock:      clock,
		Logger:     logger,
	})
}

func collect(cfg *config.Config, opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.RequestTimeout()}
	}
	return o
}
