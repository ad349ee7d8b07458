package server

import (
	"errors"
	"net/http"
	"starwarsproxy/src/domain"
	"strconv"
)

func (s *Server) GetCharactersByPage(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, r, http.StatusBadRequest, "Page number must be a positive integer")
			return
		}
		page = parsed
	}

	characters, err := s.characterService.GetCharactersByPage(r.Context(), page)
	if err != nil {
		s.logger.Error("Failed to get characters page", "page", page, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	response := make([]CharacterListItemDTO, 0, len(characters))
	for _, character := range characters {
		response = append(response, MapCharacterToListItem(character))
	}

	s.writeJSON(w, r, http.StatusOK, response)
}

func (s *Server) GetCharacter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	character, err := s.characterService.GetCharacter(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			s.writeError(w, r, http.StatusNotFound, "Character not found")
			return
		}

		s.logger.Error("Failed to get character", "id", id, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	s.writeJSON(w, r, http.StatusOK, MapCharacterToDetail(character))
}

func (s *Server) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.characterService.ClearCache(r.Context()); err != nil {
		s.logger.Error("Failed to clear cache", "error", err)
		s.writeError(w, r, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
