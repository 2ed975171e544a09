package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
)

// Errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserStore manages user accounts. Password digests only ever travel through
// this interface; nothing above the auth layer reads them.
type UserStore interface {
	// Create persists a new user. Returns ErrUserAlreadyExists when the
	// email is taken.
	Create(ctx context.Context, user *models.User) error

	// Get retrieves a user by ID.
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by their unique email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *models.User) error

	// SetActive flips the active flag for a user.
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
}
