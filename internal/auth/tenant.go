package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/store"
)

// TenantResolver maps a user to their primary organization.
type TenantResolver struct {
	memberships store.MembershipStore
}

// NewTenantResolver creates a tenant resolver.
func NewTenantResolver(memberships store.MembershipStore) *TenantResolver {
	return &TenantResolver{
		memberships: memberships,
	}
}

// OrganizationFor returns the user's primary organization ID. The primary
// membership is the earliest-created one (org ID as tiebreak), an ordering
// the membership store guarantees, so the result is stable across runs.
// Returns ErrNoOrganization when the user has no memberships.
func (r *TenantResolver) OrganizationFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	memberships, err := r.memberships.ListByUser(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load memberships: %w", err)
	}

	if len(memberships) == 0 {
		return uuid.Nil, ErrNoOrganization
	}

	return memberships[0].OrgID, nil
}
