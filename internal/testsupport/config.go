package testsupport

import (
	"path/filepath"
	"testing"

	"rcg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Store.Path = filepath.Join(base, "data", "rcg.db")
	cfgVal.LastFM.APIKey = "test"
	cfgVal.Spotify.ClientID = "test-id"
	cfgVal.Spotify.ClientSecret = "test-secret"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTimezone overrides the chart timezone.
func WithTimezone(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Chart.Timezone = name
	}
}

// WithGroupDepth overrides the collective expansion depth.
func WithGroupDepth(depth int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Chart.GroupDepth = depth
	}
}

// WithEndpoints points the external clients at a test server.
func WithEndpoints(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LastFM.BaseURL = baseURL + "/lastfm"
		b.cfg.Wikipedia.BaseURL = baseURL + "/wikipedia"
		b.cfg.Spotify.BaseURL = baseURL + "/spotify/v1"
		b.cfg.Spotify.TokenURL = baseURL + "/spotify/token"
	}
}
