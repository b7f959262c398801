package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// environment resolves credentials from the process environment first and a
// .env file second. The process environment is never modified.
type environment struct {
	dotenv map[string]string
}

func loadEnvironment(path string) (environment, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return environment{}, nil
		}
		return environment{}, fmt.Errorf("read %s: %w", path, err)
	}
	return environment{dotenv: values}, nil
}

func (e environment) lookup(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	for _, key := range keys {
		if value, ok := e.dotenv[key]; ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

func (c *Config) normalize(env environment) error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if value, ok := env.lookup("RCG_API_TOKEN"); ok {
		c.Paths.APIToken = value
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	c.normalizeSpotify(env)
	c.normalizeLastFM(env)
	c.normalizeWikipedia()
	c.normalizeChart()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = filepath.Join(c.Paths.DataDir, defaultStoreFile)
	}
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	return nil
}

func (c *Config) normalizeSpotify(env environment) {
	if value, ok := env.lookup("SPOTIFY_ID", "SPOTIFY_CLIENT_ID"); ok {
		c.Spotify.ClientID = value
	}
	if value, ok := env.lookup("SPOTIFY_SECRET", "SPOTIFY_CLIENT_SECRET"); ok {
		c.Spotify.ClientSecret = value
	}
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	c.Spotify.PlaylistID = strings.TrimPrefix(strings.TrimSpace(c.Spotify.PlaylistID), "spotify:playlist:")
	if c.Spotify.PlaylistID == "" {
		c.Spotify.PlaylistID = defaultPlaylistID
	}
	c.Spotify.BaseURL = strings.TrimSpace(c.Spotify.BaseURL)
	c.Spotify.TokenURL = strings.TrimSpace(c.Spotify.TokenURL)
}

func (c *Config) normalizeLastFM(env environment) {
	if value, ok := env.lookup("LAST_FM_ID", "LASTFM_API_KEY"); ok {
		c.LastFM.APIKey = value
	}
	c.LastFM.APIKey = strings.TrimSpace(c.LastFM.APIKey)
	c.LastFM.BaseURL = strings.TrimSpace(c.LastFM.BaseURL)
	if c.LastFM.BaseURL == "" {
		c.LastFM.BaseURL = defaultLastFMBaseURL
	}
	c.LastFM.Language = strings.ToLower(strings.TrimSpace(c.LastFM.Language))
	if c.LastFM.Language == "" {
		c.LastFM.Language = defaultLastFMLanguage
	}
}

func (c *Config) normalizeWikipedia() {
	c.Wikipedia.BaseURL = strings.TrimSpace(c.Wikipedia.BaseURL)
	if c.Wikipedia.BaseURL == "" {
		c.Wikipedia.BaseURL = defaultWikipediaBaseURL
	}
	c.Wikipedia.UserAgent = strings.TrimSpace(c.Wikipedia.UserAgent)
	if c.Wikipedia.UserAgent == "" {
		c.Wikipedia.UserAgent = defaultWikipediaUserAgent
	}
	c.Wikipedia.DisambiguationHint = strings.ToLower(strings.TrimSpace(c.Wikipedia.DisambiguationHint))
}

func (c *Config) normalizeChart() {
	c.Chart.Timezone = strings.TrimSpace(c.Chart.Timezone)
	if c.Chart.Timezone == "" {
		c.Chart.Timezone = defaultTimezone
	}
	if c.Chart.GroupDepth == 0 {
		c.Chart.GroupDepth = defaultGroupDepth
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.PollIntervalMinutes == 0 {
		c.Workflow.PollIntervalMinutes = defaultPollMinutes
	}
	if c.Workflow.RequestTimeoutSeconds == 0 {
		c.Workflow.RequestTimeoutSeconds = defaultRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
