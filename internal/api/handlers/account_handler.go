package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/geonotes-be/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AccountHandler handles HTTP requests for registration and sign-in.
type AccountHandler struct {
	service services.AccountServiceProvider
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service services.AccountServiceProvider) *AccountHandler {
	return &AccountHandler{service: service}
}

// SignUp handles new user registration.
func (h *AccountHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	// Usernames are matched exactly, surrounding spaces included.
	username := r.PostFormValue("username")
	err := h.service.Register(r.Context(),
		username, r.PostFormValue("password"), formValue(r, "email"), formValue(r, "name"))
	if err != nil {
		logFailure(err).Str("username", username).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	respondOK(w, nil)
}

// SignIn handles credential verification.
func (h *AccountHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	// Usernames are matched exactly, surrounding spaces included.
	username := r.PostFormValue("username")
	user, err := h.service.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		logFailure(err).Str("username", username).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}

	respondOK(w, user)
}

// Get handles retrieving a user by their ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID("id", chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		logFailure(err).Int64("user_id", id).Msg("Failed to get user by ID")
		respondError(w, err)
		return
	}

	respondOK(w, user)
}

// logFailure logs storage failures as errors and client-caused ones as warnings.
func logFailure(err error) *zerolog.Event {
	if errors.Is(err, services.ErrStorage) {
		return log.Error().Err(err)
	}
	return log.Warn().Err(err)
}
