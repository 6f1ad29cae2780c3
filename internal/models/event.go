package models

import "time"

// Event represents a recorded account or note activity.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "user.register", "note.delete"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"` // Nullable for events without an owner
	CreatedAt time.Time `json:"created_at"`
}
