package server

import (
	"encoding/json"
	"net/http"
)

type chatRequest struct {
	Message string `json:"message"`
	// Context carries optional caller-gathered context (recent logs, test
	// summaries) forwarded verbatim to the model.
	Context any `json:"context,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	contextData := ""
	if req.Context != nil {
		if data, err := json.Marshal(req.Context); err == nil {
			contextData = string(data)
		}
	}

	response, err := s.ai.Chat(r.Context(), req.Message, contextData)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]string{
		"response": response,
		"model":    s.ai.Model(),
	})
}

type analyzeRequest struct {
	Content string `json:"content"`
}

// analyze factors the shared shape of the three analysis endpoints.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request, run func(string) (string, error)) {
	var req analyzeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		s.respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	analysis, err := run(req.Content)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]string{
		"analysis": analysis,
		"model":    s.ai.Model(),
	})
}

func (s *Server) handleAnalyzeLogs(w http.ResponseWriter, r *http.Request) {
	s.analyze(w, r, func(content string) (string, error) {
		return s.ai.AnalyzeLogs(r.Context(), content)
	})
}

func (s *Server) handleAnalyzeTests(w http.ResponseWriter, r *http.Request) {
	s.analyze(w, r, func(content string) (string, error) {
		return s.ai.AnalyzeTests(r.Context(), content)
	})
}

func (s *Server) handleAnalyzeSecurity(w http.ResponseWriter, r *http.Request) {
	s.analyze(w, r, func(content string) (string, error) {
		return s.ai.AnalyzeSecurity(r.Context(), content)
	})
}
