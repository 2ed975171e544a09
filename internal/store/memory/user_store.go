// Package memory provides in-memory store implementations for development
// and testing. All stores are safe for concurrent use and hand out defensive
// copies so callers cannot mutate shared state.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
)

// UserStore is an in-memory implementation of store.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*models.User
	byEmail map[string]uuid.UUID
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Create persists a new user, enforcing email uniqueness.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return store.ErrUserAlreadyExists
	}
	if _, exists := s.users[user.UserID]; exists {
		return store.ErrUserAlreadyExists
	}

	cp := *user
	s.users[user.UserID] = &cp
	s.byEmail[email] = user.UserID
	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	cp := *user
	return &cp, nil
}

// GetByEmail retrieves a user by email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.byEmail[strings.ToLower(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	cp := *s.users[userID]
	return &cp, nil
}

// Update updates an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.users[user.UserID]
	if !exists {
		return store.ErrUserNotFound
	}

	// Keep the email index in sync when the address changes
	oldEmail := strings.ToLower(existing.Email)
	newEmail := strings.ToLower(user.Email)
	if oldEmail != newEmail {
		if _, taken := s.byEmail[newEmail]; taken {
			return store.ErrUserAlreadyExists
		}
		delete(s.byEmail, oldEmail)
		s.byEmail[newEmail] = user.UserID
	}

	cp := *user
	cp.UpdatedAt = time.Now()
	s.users[user.UserID] = &cp
	return nil
}

// SetActive flips the active flag for a user.
func (s *UserStore) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return store.ErrUserNotFound
	}

	user.Active = active
	user.UpdatedAt = time.Now()
	return nil
}
