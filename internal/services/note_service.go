package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/isdelr/geonotes-be/internal/models"
)

// NoteServiceProvider defines the interface for note services.
type NoteServiceProvider interface {
	CreateNote(ctx context.Context, userID, text string, coords models.Coordinates) (models.Note, error)
	EditNote(ctx context.Context, noteID int64, text string, coords models.Coordinates) error
	DeleteNote(ctx context.Context, noteID int64) error
	ListNotes(ctx context.Context, userID int64) ([]models.Note, error)
	GetNote(ctx context.Context, userID, noteID int64) (models.Note, error)
}

// NoteService provides business logic over the notes store.
type NoteService struct {
	db           *sql.DB
	eventService EventServiceProvider
	now          func() time.Time
}

// NewNoteService creates a new NoteService.
func NewNoteService(db *sql.DB, eventService EventServiceProvider) *NoteService {
	return &NoteService{
		db:           db,
		eventService: eventService,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

const noteColumns = "id, user_id, text, date, longitude, latitude"

// CreateNote stores a new note dated now. userID is the raw client value.
func (s *NoteService) CreateNote(ctx context.Context, userID, text string, coords models.Coordinates) (models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return models.Note{}, NewValidationError("text is required")
	}
	uid, err := strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
	if err != nil {
		return models.Note{}, NewValidationError("user_id must be an integer")
	}

	note := models.Note{
		UserID:    uid,
		Text:      text,
		Date:      s.now(),
		Longitude: coords.Longitude,
		Latitude:  coords.Latitude,
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO notes(user_id, text, date, longitude, latitude) VALUES(?, ?, ?, ?, ?)",
		note.UserID, note.Text, note.Date, nullable(note.Longitude), nullable(note.Latitude))
	if err != nil {
		return models.Note{}, storageError("insert note", err)
	}
	if note.ID, err = res.LastInsertId(); err != nil {
		return models.Note{}, storageError("read note id", err)
	}

	recordEvent(ctx, s.eventService, EventNoteCreate, fmt.Sprintf("Note %d created.", note.ID), &note.UserID)
	return note, nil
}

// EditNote replaces the text and coordinates of an existing note.
func (s *NoteService) EditNote(ctx context.Context, noteID int64, text string, coords models.Coordinates) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("text is required")
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE notes SET text = ?, longitude = ?, latitude = ? WHERE id = ?",
		text, nullable(coords.Longitude), nullable(coords.Latitude), noteID)
	if err != nil {
		return storageError("update note", err)
	}
	if err := expectOneRow(res, "update note"); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundError("note with id %d", noteID)
		}
		return err
	}

	recordEvent(ctx, s.eventService, EventNoteEdit, fmt.Sprintf("Note %d edited.", noteID), nil)
	return nil
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, noteID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", noteID)
	if err != nil {
		return storageError("delete note", err)
	}
	if err := expectOneRow(res, "delete note"); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundError("note with id %d", noteID)
		}
		return err
	}

	recordEvent(ctx, s.eventService, EventNoteDelete, fmt.Sprintf("Note %d deleted.", noteID), nil)
	return nil
}

// ListNotes returns every note of a user in insertion order. No notes is an empty slice.
func (s *NoteService) ListNotes(ctx context.Context, userID int64) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, storageError("query notes", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, storageError("scan note", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate notes", err)
	}
	return notes, nil
}

// GetNote retrieves a note only if it belongs to userID.
func (s *NoteService) GetNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ? AND user_id = ?", noteID, userID)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, notFoundError("note with id %d for user %d", noteID, userID)
		}
		return models.Note{}, storageError("query note", err)
	}
	return note, nil
}

// scanNote is a helper to scan a note from a row or rows object.
func scanNote(scanner interface{ Scan(...interface{}) error }) (models.Note, error) {
	var note models.Note
	var longitude, latitude sql.NullString
	if err := scanner.Scan(&note.ID, &note.UserID, &note.Text, &note.Date, &longitude, &latitude); err != nil {
		return note, err
	}
	if longitude.Valid {
		note.Longitude = &longitude.String
	}
	if latitude.Valid {
		note.Latitude = &latitude.String
	}
	return note, nil
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageError(op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
