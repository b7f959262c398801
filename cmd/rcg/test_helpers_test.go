package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rcg/internal/config"
	"rcg/internal/store"
	"rcg/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	upstream   *testsupport.Upstream
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"SPOTIFY_ID", "SPOTIFY_CLIENT_ID", "SPOTIFY_SECRET", "SPOTIFY_CLIENT_SECRET", "LAST_FM_ID", "LASTFM_API_KEY", "RCG_API_TOKEN"} {
		t.Setenv(key, "")
	}
	t.Chdir(base)

	upstream := testsupport.NewUpstream(t)
	cfg := testsupport.NewConfig(t, testsupport.WithEndpoints(upstream.URL()))
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "rcg", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, upstream: upstream, configPath: configPath}
}

// withStore opens the env's store for fn and closes it before returning.
func (e *cliTestEnv) withStore(t *testing.T, fn func(*store.Store)) {
	t.Helper()
	st, err := store.Open(e.cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()
	fn(st)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
