package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cespare/xxhash/v2"
)

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// writeJSON serializa o corpo. Respostas 200 de GET levam ETag e respondem
// 304 quando o cliente já tem a mesma versão.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("Failed to marshal JSON response", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if r.Method == http.MethodGet && status == http.StatusOK {
		etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(payload))
		w.Header().Set("ETag", etag)

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		s.logger.Error("Failed to write JSON response", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, r, status, errorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}
