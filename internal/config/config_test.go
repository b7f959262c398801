package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rcg/internal/config"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SPOTIFY_ID", "SPOTIFY_CLIENT_ID", "SPOTIFY_SECRET", "SPOTIFY_CLIENT_SECRET", "LAST_FM_ID", "LASTFM_API_KEY", "RCG_API_TOKEN"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearCredentialEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "rcg")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Store.Path != filepath.Join(wantData, "rcg.db") {
		t.Fatalf("unexpected store path: %q", cfg.Store.Path)
	}
	if cfg.Spotify.PlaylistID != "37i9dQZF1DX0XUsuxWHRQd" {
		t.Fatalf("unexpected playlist id: %q", cfg.Spotify.PlaylistID)
	}
	if cfg.Chart.Timezone != "America/New_York" {
		t.Fatalf("unexpected timezone: %q", cfg.Chart.Timezone)
	}
	if cfg.Chart.GroupDepth != 1 {
		t.Fatalf("unexpected group depth: %d", cfg.Chart.GroupDepth)
	}
	if cfg.Wikipedia.DisambiguationHint != "rapper" {
		t.Fatalf("unexpected disambiguation hint: %q", cfg.Wikipedia.DisambiguationHint)
	}
	if err := cfg.RequireSpotify(); !errors.Is(err, config.ErrMissingCredentials) {
		t.Fatalf("expected missing spotify credentials to be reported, got %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearCredentialEnv(t)
	t.Chdir(t.TempDir())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "rcg.toml")

	type payload struct {
		LastFM struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"lastfm"`
		Chart struct {
			Timezone   string `toml:"timezone"`
			GroupDepth int    `toml:"group_depth"`
		} `toml:"chart"`
		Workflow struct {
			PollIntervalMinutes int `toml:"poll_interval_minutes"`
		} `toml:"workflow"`
	}
	custom := payload{}
	custom.LastFM.APIKey = "abc123"
	custom.LastFM.BaseURL = "https://example.com/lastfm"
	custom.Chart.Timezone = "UTC"
	custom.Chart.GroupDepth = 2
	custom.Workflow.PollIntervalMinutes = 30
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.LastFM.APIKey != "abc123" {
		t.Fatalf("expected Last.fm key from file, got %q", cfg.LastFM.APIKey)
	}
	if cfg.LastFM.BaseURL != "https://example.com/lastfm" {
		t.Fatalf("expected Last.fm base url override, got %q", cfg.LastFM.BaseURL)
	}
	if cfg.Chart.Timezone != "UTC" || cfg.Chart.GroupDepth != 2 {
		t.Fatalf("unexpected chart settings: %+v", cfg.Chart)
	}
	if cfg.PollInterval().Minutes() != 30 {
		t.Fatalf("expected 30 minute poll interval, got %s", cfg.PollInterval())
	}
}

func TestEnvVarOverridesConfigFileForCredentials(t *testing.T) {
	clearCredentialEnv(t)
	t.Chdir(t.TempDir())
	configPath := filepath.Join(t.TempDir(), "rcg.toml")
	contents := `
[spotify]
client_id = "file-id"
client_secret = "file-secret"

[lastfm]
api_key = "file-lastfm"
`
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SPOTIFY_ID", "env-id")
	t.Setenv("LAST_FM_ID", "env-lastfm")
	t.Setenv("RCG_API_TOKEN", "env-token")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Spotify.ClientID != "env-id" {
		t.Fatalf("expected env spotify id, got %q", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.ClientSecret != "file-secret" {
		t.Fatalf("expected file spotify secret, got %q", cfg.Spotify.ClientSecret)
	}
	if cfg.LastFM.APIKey != "env-lastfm" {
		t.Fatalf("expected env Last.fm key, got %q", cfg.LastFM.APIKey)
	}
	if cfg.Paths.APIToken != "env-token" {
		t.Fatalf("expected env api token, got %q", cfg.Paths.APIToken)
	}
	if err := cfg.RequireSpotify(); err != nil {
		t.Fatalf("RequireSpotify: %v", err)
	}
}

func TestDotenvFileSuppliesCredentials(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	workDir := t.TempDir()
	t.Chdir(workDir)
	dotenv := "SPOTIFY_ID=dot-id\nSPOTIFY_SECRET=dot-secret\nLAST_FM_ID=dot-lastfm\n"
	if err := os.WriteFile(filepath.Join(workDir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Spotify.ClientID != "dot-id" || cfg.Spotify.ClientSecret != "dot-secret" {
		t.Fatalf("unexpected spotify credentials: %+v", cfg.Spotify)
	}
	if cfg.LastFM.APIKey != "dot-lastfm" {
		t.Fatalf("unexpected Last.fm key: %q", cfg.LastFM.APIKey)
	}
	if value := os.Getenv("SPOTIFY_ID"); value != "" {
		t.Fatalf("expected process environment untouched, got %q", value)
	}
}

func TestProjectConfigIsDiscovered(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	workDir := t.TempDir()
	t.Chdir(workDir)
	if err := os.WriteFile(filepath.Join(workDir, "rcg.toml"), []byte("[chart]\ntimezone = \"UTC\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || !strings.HasSuffix(resolved, "rcg.toml") {
		t.Fatalf("expected project config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Chart.Timezone != "UTC" {
		t.Fatalf("expected UTC timezone, got %q", cfg.Chart.Timezone)
	}
}

func TestCreateSample(t *testing.T) {
	clearCredentialEnv(t)
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	content := string(data)
	for _, section := range []string{"[paths]", "[spotify]", "[lastfm]", "[wikipedia]", "[chart]", "[logging]"} {
		if !strings.Contains(content, section) {
			t.Fatalf("sample config missing %s", section)
		}
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"timezone", func(c *config.Config) { c.Chart.Timezone = "Mars/Olympus" }, "chart.timezone"},
		{"depth", func(c *config.Config) { c.Chart.GroupDepth = -1 }, "chart.group_depth"},
		{"poll", func(c *config.Config) { c.Workflow.PollIntervalMinutes = -5 }, "workflow.poll_interval_minutes"},
		{"endpoint", func(c *config.Config) { c.LastFM.BaseURL = "not a url" }, "lastfm.base_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadWrapsInvalidConfig(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[chart]\ntimezone = \"Mars/Olympus\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[chart]\ntimezon = \"UTC\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "timezon") {
		t.Fatalf("expected the unknown key in the error, got %v", err)
	}
}
