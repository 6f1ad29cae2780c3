package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/geonotes-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Event types recorded by the account and note services.
const (
	EventUserRegister = "user.register"
	EventNoteCreate   = "note.create"
	EventNoteEdit     = "note.edit"
	EventNoteDelete   = "note.delete"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *int64) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
	PruneEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// EventService provides business logic for the activity log.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID *int64) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.UserID, event.CreatedAt.Unix())
	if err != nil {
		return storageError("insert event", err)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, level, message, user_id, created_at FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, storageError("query events", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var userID sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &userID, &createdAt); err != nil {
			return nil, storageError("scan event", err)
		}
		if userID.Valid {
			event.UserID = &userID.Int64
		}
		event.CreatedAt = time.Unix(createdAt, 0).UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate events", err)
	}
	return events, nil
}

// PruneEvents deletes events created before olderThan and returns how many were removed.
func (s *EventService) PruneEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", olderThan.Unix())
	if err != nil {
		return 0, storageError("prune events", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, storageError("prune events", err)
	}
	return removed, nil
}

// recordEvent writes to the activity log without failing the caller.
func recordEvent(ctx context.Context, events EventServiceProvider, eventType, message string, userID *int64) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(ctx, eventType, "info", message, userID); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record event")
	}
}
