package server

import (
	"net/http"
	"time"
)

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, HealthDTO{
		Status:    "healthy",
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}
