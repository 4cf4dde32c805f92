package server

import (
	"net/http"

	"github.com/valter-silva-au/logiclens/internal/tracker"
)

// handleListSuites lists suites newest-first.
// Query params: status, limit.
func (s *Server) handleListSuites(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	suites, err := s.tracker.ListSuites(q.Get("status"), queryInt(q.Get("limit"), 0))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{
		"suites": suites,
		"count":  len(suites),
	})
}

type startSuiteRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleStartSuite(w http.ResponseWriter, r *http.Request) {
	var req startSuiteRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	suiteID, err := s.tracker.StartSuite(req.Name)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusCreated, map[string]string{"suite_id": suiteID})
}

func (s *Server) handleGetSuite(w http.ResponseWriter, r *http.Request) {
	suite, err := s.tracker.GetSuite(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusOK, suite)
}

type addResultRequest struct {
	TestID   string         `json:"test_id"`
	TestName string         `json:"test_name"`
	Status   string         `json:"status"`
	Duration float64        `json:"duration"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handleAddResult(w http.ResponseWriter, r *http.Request) {
	var req addResultRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.TestID == "" || req.Status == "" {
		s.respondError(w, http.StatusBadRequest, "test_id and status are required")
		return
	}
	if req.Duration < 0 {
		s.respondError(w, http.StatusBadRequest, "duration must be non-negative")
		return
	}

	result, err := s.tracker.AddResult(r.PathValue("id"), tracker.ResultInput{
		TestID:   req.TestID,
		TestName: req.TestName,
		Status:   req.Status,
		Duration: req.Duration,
		Message:  req.Message,
		Metadata: req.Metadata,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusCreated, result)
}

func (s *Server) handleEndSuite(w http.ResponseWriter, r *http.Request) {
	suite, err := s.tracker.EndSuite(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusOK, suite)
}

type importJUnitRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// handleImportJUnit imports a JUnit XML report from a server-local path.
func (s *Server) handleImportJUnit(w http.ResponseWriter, r *http.Request) {
	var req importJUnitRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	suiteID, err := s.tracker.ImportJUnitXML(req.Path, req.Name)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusCreated, map[string]string{"suite_id": suiteID})
}
