package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
)

// Errors
var (
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrMembershipAlreadyExists = errors.New("membership already exists")
)

// MembershipStore manages the user/organization join.
type MembershipStore interface {
	// Add creates a membership linking a user to an organization.
	Add(ctx context.Context, membership *models.Membership) error

	// ListByUser returns all memberships for a user ordered by creation time
	// ascending with org ID as tiebreak. The ordering is part of the
	// contract: the first element is the user's primary membership.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error)

	// Remove deletes the membership for the given user and organization.
	Remove(ctx context.Context, userID, orgID uuid.UUID) error
}
