package models

// User represents a registered account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose this to the client
	Name         string `json:"name"`
	Email        string `json:"email"`
}
