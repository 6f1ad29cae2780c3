package models

import "time"

// Note is a user-authored text record with optional geolocation.
type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
	Longitude *string   `json:"longitude"` // nil on notes without a location
	Latitude  *string   `json:"latitude"`
}

// Coordinates carries the optional location of a note as supplied by the client.
// Values are stored verbatim and never validated as numbers.
type Coordinates struct {
	Longitude *string
	Latitude  *string
}
