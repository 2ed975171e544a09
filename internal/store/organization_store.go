package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
)

// Errors
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationStore manages organizations (tenants).
type OrganizationStore interface {
	// Create creates a new organization.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// Update updates an existing organization.
	Update(ctx context.Context, org *models.Organization) error

	// Delete removes an organization.
	Delete(ctx context.Context, orgID uuid.UUID) error
}
