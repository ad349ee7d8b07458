package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/services/record"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxRequestBodySize = 1024 * 1024

var validate = newValidator()

// Erros de validação usam o nome do campo no JSON.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) SaveData(w http.ResponseWriter, r *http.Request) {
	var request SaveDataRequest

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	if err := decoder.Decode(&request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Request body must be a JSON object with type and data")
		return
	}

	if err := validate.Struct(request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	data, err := json.Marshal(request.Data)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Field 'data' must be a JSON object")
		return
	}

	saved, err := s.recordService.SaveData(r.Context(), record.SaveDataInput{
		Type: request.Type,
		Data: data,
	})
	if err != nil {
		s.logger.Error("Failed to save data", "type", request.Type, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	s.writeJSON(w, r, http.StatusCreated, MapRecordToResponse(*saved))
}

func (s *Server) GetData(w http.ResponseWriter, r *http.Request) {
	recordType := r.PathValue("type")
	id := r.PathValue("id")

	found, ok, err := s.recordService.GetData(r.Context(), id, recordType)
	if err != nil {
		s.logger.Error("Failed to get data", "type", recordType, "id", id, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Data not found")
		return
	}

	s.writeJSON(w, r, http.StatusOK, MapRecordToResponse(*found))
}

func (s *Server) GetAllData(w http.ResponseWriter, r *http.Request) {
	recordType := r.PathValue("type")

	records, err := s.recordService.GetAllData(r.Context(), recordType)
	if err != nil {
		s.logger.Error("Failed to list data", "type", recordType, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	s.writeJSON(w, r, http.StatusOK, MapRecordsToResponse(records))
}

func (s *Server) GetExternalAPIHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.recordService.GetExternalAPIHistory(r.Context())
	if err != nil {
		s.logger.Error("Failed to get history", "error", err)
		s.writeError(w, r, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	s.writeJSON(w, r, http.StatusOK, MapRecordsToResponse(history))
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	message := "Invalid request:"
	for _, fieldError := range validationErrors {
		message += fmt.Sprintf(" field '%s' failed rule '%s';", fieldError.Field(), fieldError.Tag())
	}
	return message
}
