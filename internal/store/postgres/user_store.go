package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
	"github.com/rs/zerolog/log"
)

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL-backed user store.
// It shares the connection pool with other stores.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{
		pool: pool,
	}
}

// Create creates a new user in the database.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			user_id, email, hashed_password, active, full_name,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.HashedPassword,
		user.Active,
		user.FullName,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Msg("Created user")

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT user_id, email, hashed_password, active, full_name,
			created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var u models.User
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&u.UserID,
		&u.Email,
		&u.HashedPassword,
		&u.Active,
		&u.FullName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by email address, case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT user_id, email, hashed_password, active, full_name,
			created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`

	var u models.User
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&u.UserID,
		&u.Email,
		&u.HashedPassword,
		&u.Active,
		&u.FullName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// Update updates an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users SET
			email = $2,
			hashed_password = $3,
			active = $4,
			full_name = $5,
			updated_at = $6
		WHERE user_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.HashedPassword,
		user.Active,
		user.FullName,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Msg("Updated user")

	return nil
}

// SetActive flips the active flag for a user.
func (s *UserStore) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	query := `
		UPDATE users
		SET active = $2, updated_at = $3
		WHERE user_id = $1
	`

	result, err := s.pool.Exec(ctx, query, userID, active, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set user active flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}

	return nil
}
