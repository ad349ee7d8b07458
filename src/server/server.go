package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"starwarsproxy/src/services/character"
	"starwarsproxy/src/services/record"
	"time"
)

// Server representa o servidor HTTP da API
type Server struct {
	logger           *slog.Logger
	server           *http.Server
	mux              *http.ServeMux
	addr             string
	characterService *character.CharacterService
	recordService    *record.RecordService
	now              func() time.Time
}

// NewServer cria uma nova instância do servidor
func NewServer(
	logger *slog.Logger,
	addr string,
	characterService *character.CharacterService,
	recordService *record.RecordService,
) *Server {
	server := &Server{
		mux:              http.NewServeMux(),
		addr:             addr,
		logger:           logger,
		characterService: characterService,
		recordService:    recordService,
		now:              time.Now,
	}

	server.server = &http.Server{
		Addr:    addr,
		Handler: server.mux,
		// Upstream tem timeout de 30s, o write precisa cobrir o pior caso.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	server.mux.HandleFunc("GET /api/v1/characters", server.GetCharactersByPage)
	server.mux.HandleFunc("GET /api/v1/characters/{$}", server.GetCharactersByPage)
	server.mux.HandleFunc("GET /api/v1/characters/{id}", server.GetCharacter)
	server.mux.HandleFunc("DELETE /api/v1/characters/cache", server.ClearCache)

	server.mux.HandleFunc("POST /api/v1/data", server.SaveData)
	server.mux.HandleFunc("GET /api/v1/data/{type}/{id}", server.GetData)
	server.mux.HandleFunc("GET /api/v1/data/{type}", server.GetAllData)
	server.mux.HandleFunc("GET /api/v1/history", server.GetExternalAPIHistory)

	server.mux.HandleFunc("GET /health", server.Health)

	return server
}

// Handler expõe as rotas para outros transportes (Lambda, httptest).
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start inicia o servidor HTTP
func (s *Server) Start() error {
	s.logger.Info("Server started", "addr", s.addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown encerra o servidor HTTP de forma graciosa
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
