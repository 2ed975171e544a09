package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can authenticate against the system.
// The password digest is write-only: it never leaves the store layer in
// any outward-facing view.
type User struct {
	UserID         uuid.UUID // UUIDv7
	Email          string    // Unique, lowercased at the boundary
	HashedPassword string    `json:"-"` // bcrypt digest
	Active         bool      // Inactive users cannot log in or hold sessions
	FullName       string    // Display name

	CreatedAt time.Time
	UpdatedAt time.Time
}
