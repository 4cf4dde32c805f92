package server

import (
	"context"
	"net/http"
	"time"
)

// handleHealth reports liveness plus the reachability of the model service.
// It is exempt from API key auth so orchestrators can probe it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ollamaUp := s.ai != nil && s.ai.Health(ctx) == nil

	s.respondData(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"ollama_up": ollamaUp,
		"time":      time.Now().UTC(),
	})
}
