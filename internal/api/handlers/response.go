package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/isdelr/geonotes-be/internal/services"
	"github.com/rs/zerolog/log"
)

// Envelope is the uniform body of every response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *string     `json:"error"`
}

// respondOK writes a successful envelope. data may be nil.
func respondOK(w http.ResponseWriter, data interface{}) {
	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// respondError maps a service error onto a status code and a client-safe message.
func respondError(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	writeEnvelope(w, status, Envelope{Success: false, Error: &msg})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "storage failure, please retry later"
	}
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// formValue returns a trimmed body field; absent and empty are both "".
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// optionalFormValue returns nil for an absent or empty field.
func optionalFormValue(r *http.Request, key string) *string {
	v := formValue(r, key)
	if v == "" {
		return nil
	}
	return &v
}

// parseID parses a numeric identifier from a path parameter or form field.
func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, services.NewValidationError("%s must be an integer", name)
	}
	return id, nil
}
