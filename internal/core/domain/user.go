package domain

import "time"

// User represents a registered user of the application in the domain.
// The ledger references users by ID only; statements carry no back-reference.
type User struct {
	UserID       string    `json:"userID"` // Primary Key (UUID)
	Name         string    `json:"name"`
	Email        string    `json:"email"` // Unique login identifier
	PasswordHash string    `json:"-"`     // Never expose the hash in JSON responses
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
