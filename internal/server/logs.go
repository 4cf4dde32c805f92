package server

import (
	"net/http"
	"strconv"

	"github.com/valter-silva-au/logiclens/pkg/models"
)

// handleGetLogs lists stored log events, newest-first.
// Query params: component, level, limit.
func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := queryInt(q.Get("limit"), 0)

	events, err := s.logs.GetLogs(q.Get("component"), q.Get("level"), limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{
		"logs":  events,
		"count": len(events),
	})
}

type postLogRequest struct {
	Component string         `json:"component"`
	Message   string         `json:"message"`
	Level     string         `json:"level"`
	Details   map[string]any `json:"details"`
}

// handlePostLog writes one structured log event.
func (s *Server) handlePostLog(w http.ResponseWriter, r *http.Request) {
	var req postLogRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Component == "" || req.Message == "" {
		s.respondError(w, http.StatusBadRequest, "component and message are required")
		return
	}

	event, err := s.logs.LogEvent(req.Component, req.Message, models.NormalizeLogLevel(req.Level), req.Details)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusCreated, event)
}

// queryInt parses a positive integer query value, falling back on def.
func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
