package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"rcg/internal/apperr"
	"rcg/internal/logging"
	"rcg/internal/reconcile"
	"rcg/internal/report"
)

// Reports renders the read-only views.
type Reports interface {
	Chart(ctx context.Context, date string) (report.ChartView, error)
	Counts(ctx context.Context, date string) (report.CountsView, error)
	Tally(ctx context.Context, date string) (report.TallyView, error)
}

// Engine runs reconciliations and diffs.
type Engine interface {
	Reconcile(ctx context.Context, date string) (reconcile.Result, error)
	Diff(ctx context.Context, from, to string) (reconcile.DiffResult, error)
}

// StatusFunc reports process status for GET /api/status.
type StatusFunc func(ctx context.Context) any

// Options configures a Server. Status is optional.
type Options struct {
	Bind    string
	Token   string
	Reports Reports
	Engine  Engine
	Status  StatusFunc
	Logger  *slog.Logger
}

// Server is the JSON API.
type Server struct {
	bind    string
	reports Reports
	engine  Engine
	status  StatusFunc
	logger  *slog.Logger
	handler http.Handler

	listener net.Listener
	server   *http.Server
}

// New builds a Server. Reports and Engine are required.
func New(opts Options) (*Server, error) {
	if opts.Reports == nil || opts.Engine == nil {
		return nil, errors.New("http api requires reports and engine")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		bind:    strings.TrimSpace(opts.Bind),
		reports: opts.Reports,
		engine:  opts.Engine,
		status:  opts.Status,
		logger:  logging.NewComponentLogger(logger, "api-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chart", srv.handleChart)
	mux.HandleFunc("/api/counts", srv.handleCounts)
	mux.HandleFunc("/api/tally", srv.handleTally)
	mux.HandleFunc("/api/diff", srv.handleDiff)
	mux.HandleFunc("/api/update", srv.handleUpdate)
	if srv.status != nil {
		mux.HandleFunc("/api/status", srv.handleStatus)
	}
	srv.handler = authMiddleware(opts.Token, mux)
	return srv, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured bind address and serves until ctx ends or
// Stop is called. An empty bind address disables the server.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.status(r.Context()))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}
	view, err := s.reports.Chart(r.Context(), r.URL.Query().Get("date"))
	s.respond(w, view, err)
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}
	view, err := s.reports.Counts(r.Context(), r.URL.Query().Get("date"))
	s.respond(w, view, err)
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}
	view, err := s.reports.Tally(r.Context(), r.URL.Query().Get("date"))
	s.respond(w, view, err)
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}
	query := r.URL.Query()
	from, to := strings.TrimSpace(query.Get("from")), strings.TrimSpace(query.Get("to"))
	if from == "" || to == "" {
		s.writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	result, err := s.engine.Diff(r.Context(), from, to)
	s.respond(w, result, err)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodPost) {
		return
	}
	result, err := s.engine.Reconcile(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		logging.WarnWithContext(s.logger, "api update failed", "api_update_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "chart not updated"),
		)
	}
	s.respond(w, result, err)
}

func (s *Server) allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func (s *Server) respond(w http.ResponseWriter, payload any, err error) {
	if err != nil {
		s.writeError(w, apperr.HTTPStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
