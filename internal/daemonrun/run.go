// Package daemonrun hosts the rcgd process runtime so both binaries can start
// the daemon the same way.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"rcg/internal/chart"
	"rcg/internal/config"
	"rcg/internal/daemon"
	"rcg/internal/logging"
	"rcg/internal/report"
	"rcg/internal/services"
	"rcg/internal/store"
	"rcg/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// Run starts the rcg daemon and blocks until the context is cancelled or
// the process receives SIGINT/SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := newLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logConfigSnapshot(logger, cfg)

	pidPath := filepath.Join(cfg.Paths.DataDir, "rcgd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open chart store", logging.Error(err))
		return err
	}

	engine, err := services.NewEngine(signalCtx, cfg, st, logger)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("build reconciliation engine: %w", err)
	}
	clock, err := chart.NewZoneClock(cfg.Chart.Timezone)
	if err != nil {
		_ = st.Close()
		return err
	}
	reports := report.NewService(st, clock)
	manager := workflow.NewManager(engine, cfg.PollInterval(), logger)

	d, err := daemon.New(cfg, st, logger, manager, reports, engine)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	<-signalCtx.Done()
	logger.Info("rcg daemon shutting down")
	return nil
}

func newLogger(cfg *config.Config, opts Options) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	outputs := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "rcgd.log"))
	}
	return logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
		Development: opts.Development,
	})
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.String("store_path", cfg.Store.Path),
		logging.String("playlist_id", cfg.Spotify.PlaylistID),
		logging.String("timezone", cfg.Chart.Timezone),
		logging.Int("group_depth", cfg.Chart.GroupDepth),
		logging.Duration("poll_interval", cfg.PollInterval()),
		logging.String("api_bind", cfg.Paths.APIBind),
		logging.Bool("api_token_set", cfg.Paths.APIToken != ""),
		logging.Bool("spotify_credentials_present", cfg.RequireSpotify() == nil),
		logging.Bool("lastfm_key_present", cfg.RequireLastFM() == nil),
	)
}
