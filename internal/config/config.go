package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

var (
	// ErrInvalidConfig reports a config file that does not parse or validate.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrMissingCredentials reports credentials required by the requested command.
	ErrMissingCredentials = errors.New("missing credentials")
)

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Store contains the relational store location.
type Store struct {
	Path string `toml:"path"`
}

// Spotify contains credentials and the playlist polled for chart snapshots.
type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	PlaylistID   string `toml:"playlist_id"`
	BaseURL      string `toml:"base_url"`
	TokenURL     string `toml:"token_url"`
}

// LastFM configures biography source A.
type LastFM struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// Wikipedia configures biography source B.
type Wikipedia struct {
	BaseURL            string `toml:"base_url"`
	UserAgent          string `toml:"user_agent"`
	DisambiguationHint string `toml:"disambiguation_hint"`
}

// Chart contains chart date and identity-resolution settings.
type Chart struct {
	Timezone   string `toml:"timezone"`
	GroupDepth int    `toml:"group_depth"`
}

// Workflow contains daemon timing and request limits.
type Workflow struct {
	PollIntervalMinutes   int `toml:"poll_interval_minutes"`
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for rcg.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - Store: sqlite database location
//   - Spotify: playlist source credentials and playlist id
//   - LastFM / Wikipedia: biography sources used for gender labels
//   - Chart: "today" timezone and group expansion depth
//   - Workflow: daemon polling interval and HTTP timeouts
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Store     Store     `toml:"store"`
	Spotify   Spotify   `toml:"spotify"`
	LastFM    LastFM    `toml:"lastfm"`
	Wikipedia Wikipedia `toml:"wikipedia"`
	Chart     Chart     `toml:"chart"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load resolves the config file, decodes it over the defaults, applies
// environment and .env credentials, and validates the result. It returns the
// resolved path and whether a file existed there. Unknown keys are rejected
// so typos surface as ErrInvalidConfig instead of silently using defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	env, err := loadEnvironment(dotenvPath)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.normalize(env); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, strict.String())
		}
		return fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// resolveConfigPath picks the explicit path when given. Otherwise the first
// existing candidate wins: the user config, then ./rcg.toml. When neither
// exists the user config path is returned with exists=false.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		if err != nil {
			return "", false, err
		}
		return expanded, exists, nil
	}

	var candidates []string
	for _, candidate := range []string{defaultConfigPath, "rcg.toml"} {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		candidates = append(candidates, expanded)
	}
	for _, candidate := range candidates {
		exists, err := isFile(candidate)
		if err != nil {
			return "", false, err
		}
		if exists {
			return candidate, true, nil
		}
	}
	return candidates[0], false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	default:
		return !info.IsDir(), nil
	}
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Store.Path)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath is the flock file guarding reconciliation runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "reconcile.lock")
}

// RequestTimeout returns the HTTP timeout for external lookups.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Workflow.RequestTimeoutSeconds) * time.Second
}

// PollInterval returns the daemon's reconciliation cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Workflow.PollIntervalMinutes) * time.Minute
}

// Location loads the chart timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Chart.Timezone)
	if err != nil {
		return nil, fmt.Errorf("chart.timezone %q: %w", c.Chart.Timezone, err)
	}
	return loc, nil
}

// RequireSpotify reports missing playlist source credentials.
func (c *Config) RequireSpotify() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify.client_id and spotify.client_secret are required. Set SPOTIFY_ID/SPOTIFY_SECRET or edit %s (create with 'rcg config init')", ErrMissingCredentials, displayConfigPath())
	}
	return nil
}

// RequireLastFM reports a missing biography source A key.
func (c *Config) RequireLastFM() error {
	if c.LastFM.APIKey == "" {
		return fmt.Errorf("%w: lastfm.api_key is required. Set LAST_FM_ID or edit %s", ErrMissingCredentials, displayConfigPath())
	}
	return nil
}

func displayConfigPath() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return defaultConfigPath
	}
	return path
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
