package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
)

// OrganizationStore is an in-memory implementation of store.OrganizationStore.
type OrganizationStore struct {
	mu   sync.RWMutex
	orgs map[uuid.UUID]*models.Organization
}

// NewOrganizationStore creates a new in-memory organization store.
func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{
		orgs: make(map[uuid.UUID]*models.Organization),
	}
}

// Create creates a new organization.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orgs[org.OrgID]; exists {
		return store.ErrOrganizationAlreadyExists
	}

	cp := *org
	s.orgs[org.OrgID] = &cp
	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.orgs[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	cp := *org
	return &cp, nil
}

// Update updates an existing organization.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orgs[org.OrgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	cp := *org
	cp.UpdatedAt = time.Now()
	s.orgs[org.OrgID] = &cp
	return nil
}

// Delete removes an organization.
func (s *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orgs[orgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	delete(s.orgs, orgID)
	return nil
}
