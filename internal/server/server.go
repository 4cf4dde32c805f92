// Package server implements the REST API layer. Routes map one-to-one onto
// the collectors; every response is wrapped in the
// {"success": bool, "data" | "error"} envelope.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valter-silva-au/logiclens/internal/core"
	"github.com/valter-silva-au/logiclens/internal/logging"
	"github.com/valter-silva-au/logiclens/internal/monitoring"
	"github.com/valter-silva-au/logiclens/internal/observability"
	"github.com/valter-silva-au/logiclens/internal/ollama"
	"github.com/valter-silva-au/logiclens/internal/storage"
	"github.com/valter-silva-au/logiclens/internal/tracker"
)

// Server wires the collectors behind the REST API.
type Server struct {
	cfg      *core.Config
	logs     logging.Collector
	tracker  tracker.Tracker
	monitor  monitoring.Monitor
	ai       *ollama.Client
	notifier observability.Notifier
	log      *logrus.Logger

	srv *http.Server
}

// New creates a Server. notifier may be nil when no webhook is configured.
func New(cfg *core.Config, logs logging.Collector, trk tracker.Tracker, mon monitoring.Monitor, ai *ollama.Client, notifier observability.Notifier, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		cfg:      cfg,
		logs:     logs,
		tracker:  trk,
		monitor:  mon,
		ai:       ai,
		notifier: notifier,
		log:      log,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.Handle("GET /api/logs", s.auth(http.HandlerFunc(s.handleGetLogs)))
	mux.Handle("POST /api/logs", s.auth(http.HandlerFunc(s.handlePostLog)))

	mux.Handle("GET /api/test-results", s.auth(http.HandlerFunc(s.handleListSuites)))
	mux.Handle("POST /api/test-results/suite", s.auth(http.HandlerFunc(s.handleStartSuite)))
	mux.Handle("GET /api/test-results/suite/{id}", s.auth(http.HandlerFunc(s.handleGetSuite)))
	mux.Handle("POST /api/test-results/suite/{id}/result", s.auth(http.HandlerFunc(s.handleAddResult)))
	mux.Handle("POST /api/test-results/suite/{id}/end", s.auth(http.HandlerFunc(s.handleEndSuite)))
	mux.Handle("POST /api/test-results/import", s.auth(http.HandlerFunc(s.handleImportJUnit)))

	mux.Handle("GET /api/monitoring/metrics", s.auth(http.HandlerFunc(s.handleMetrics)))
	mux.Handle("GET /api/monitoring/history", s.auth(http.HandlerFunc(s.handleHistory)))
	mux.Handle("GET /api/monitoring/system", s.auth(http.HandlerFunc(s.handleSystemInfo)))
	mux.Handle("GET /api/monitoring/trends", s.auth(http.HandlerFunc(s.handleTrends)))

	mux.Handle("POST /api/ai/chat", s.auth(http.HandlerFunc(s.handleChat)))
	mux.Handle("POST /api/ai/analyze-logs", s.auth(http.HandlerFunc(s.handleAnalyzeLogs)))
	mux.Handle("POST /api/ai/analyze-tests", s.auth(http.HandlerFunc(s.handleAnalyzeTests)))
	mux.Handle("POST /api/ai/analyze-security", s.auth(http.HandlerFunc(s.handleAnalyzeSecurity)))

	return mux
}

// Start runs the HTTP server until ListenAndServe returns.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.WithField("addr", s.cfg.ListenAddr()).Info("starting LogicLens API server")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// auth enforces the static X-API-Key header when an API key is configured.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AuthEnabled() && r.Header.Get("X-API-Key") != s.cfg.APIKey {
			s.respondError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Error: msg}); err != nil {
		s.log.WithError(err).Error("failed to encode error response")
	}
}

// fail maps a collector error onto the HTTP status taxonomy.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var (
		storeErr    *storage.StoreError
		junitErr    *tracker.ParseError
		logParseErr *logging.ParseError
		svcErr      *ollama.ServiceError
	)
	switch {
	case errors.Is(err, tracker.ErrSuiteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tracker.ErrSuiteClosed):
		status = http.StatusConflict
	case errors.As(err, &junitErr), errors.As(err, &logParseErr):
		status = http.StatusBadRequest
	case errors.As(err, &svcErr):
		if svcErr.Timeout {
			status = http.StatusGatewayTimeout
		} else {
			status = http.StatusBadGateway
		}
	case errors.As(err, &storeErr):
		status = http.StatusInternalServerError
	}

	s.respondError(w, status, err.Error())
}

// decodeJSON decodes the request body into dst, rejecting unknown garbage
// with a 400.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
