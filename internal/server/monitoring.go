package server

import (
	"net/http"
)

// handleMetrics collects a fresh snapshot and evaluates alerts against the
// configured thresholds. The snapshot is not persisted here.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.monitor.Collect(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	alerts := s.monitor.EvaluateAlerts(snapshot, s.cfg.AlertThresholds)
	s.respondData(w, http.StatusOK, map[string]any{
		"metrics": snapshot,
		"alerts":  alerts,
	})
}

// handleHistory returns the most recent stored snapshots, newest-first.
// Query params: count.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r.URL.Query().Get("count"), 60)

	snapshots, err := s.monitor.History(count)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{
		"history": snapshots,
		"count":   len(snapshots),
	})
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.monitor.SystemInfo(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusOK, info)
}

// handleTrends analyzes one metric over the stored history.
// Query params: metric (required, dotted path), window.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric := q.Get("metric")
	if metric == "" {
		s.respondError(w, http.StatusBadRequest, "metric is required (e.g. system.cpu_percent)")
		return
	}

	report, err := s.monitor.Trends(metric, queryInt(q.Get("window"), 60))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondData(w, http.StatusOK, report)
}
