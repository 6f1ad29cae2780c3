package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/geonotes-be/internal/models"
	"github.com/isdelr/geonotes-be/internal/services"
	"github.com/rs/zerolog/log"
)

// NoteHandler handles HTTP requests related to notes.
type NoteHandler struct {
	service services.NoteServiceProvider
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service services.NoteServiceProvider) *NoteHandler {
	return &NoteHandler{service: service}
}

func coordinatesFromForm(r *http.Request) models.Coordinates {
	return models.Coordinates{
		Longitude: optionalFormValue(r, "longitude"),
		Latitude:  optionalFormValue(r, "latitude"),
	}
}

// Create handles the request to create a new note.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := formValue(r, "user_id")
	note, err := h.service.CreateNote(r.Context(), userID, r.PostFormValue("text"), coordinatesFromForm(r))
	if err != nil {
		logFailure(err).Str("user_id", userID).Msg("Failed to create note")
		respondError(w, err)
		return
	}

	log.Debug().Int64("note_id", note.ID).Int64("user_id", note.UserID).Msg("Note created")
	respondOK(w, nil)
}

// Edit handles the request to update a note's text and coordinates.
func (h *NoteHandler) Edit(w http.ResponseWriter, r *http.Request) {
	noteID, err := parseID("note_id", chi.URLParam(r, "noteID"))
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.EditNote(r.Context(), noteID, r.PostFormValue("text"), coordinatesFromForm(r)); err != nil {
		logFailure(err).Int64("note_id", noteID).Msg("Failed to edit note")
		respondError(w, err)
		return
	}

	respondOK(w, nil)
}

// Remove handles the request to delete a note identified by the "id" form field.
func (h *NoteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	noteID, err := parseID("id", formValue(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteNote(r.Context(), noteID); err != nil {
		logFailure(err).Int64("note_id", noteID).Msg("Failed to delete note")
		respondError(w, err)
		return
	}

	respondOK(w, nil)
}

// List handles the request to get all notes of a user.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID("user_id", chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}

	notes, err := h.service.ListNotes(r.Context(), userID)
	if err != nil {
		logFailure(err).Int64("user_id", userID).Msg("Failed to list notes")
		respondError(w, err)
		return
	}

	respondOK(w, map[string]interface{}{"notes": notes})
}

// Get handles the request to get a single note of a user.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID("user_id", chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	noteID, err := parseID("id", chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	note, err := h.service.GetNote(r.Context(), userID, noteID)
	if err != nil {
		logFailure(err).Int64("user_id", userID).Int64("note_id", noteID).Msg("Failed to get note")
		respondError(w, err)
		return
	}

	respondOK(w, note)
}
