package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
)

type membershipKey struct {
	userID uuid.UUID
	orgID  uuid.UUID
}

// MembershipStore is an in-memory implementation of store.MembershipStore.
type MembershipStore struct {
	mu          sync.RWMutex
	memberships map[membershipKey]*models.Membership
}

// NewMembershipStore creates a new in-memory membership store.
func NewMembershipStore() *MembershipStore {
	return &MembershipStore{
		memberships: make(map[membershipKey]*models.Membership),
	}
}

// Add creates a membership linking a user to an organization.
func (s *MembershipStore) Add(ctx context.Context, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{userID: membership.UserID, orgID: membership.OrgID}
	if _, exists := s.memberships[key]; exists {
		return store.ErrMembershipAlreadyExists
	}

	cp := *membership
	s.memberships[key] = &cp
	return nil
}

// ListByUser returns the user's memberships ordered by creation time
// ascending, org ID tiebreak. The first element is the primary membership.
func (s *MembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Membership
	for _, m := range s.memberships {
		if m.UserID == userID {
			cp := *m
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return bytes.Compare(result[i].OrgID[:], result[j].OrgID[:]) < 0
	})

	return result, nil
}

// Remove deletes the membership for the given user and organization.
func (s *MembershipStore) Remove(ctx context.Context, userID, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{userID: userID, orgID: orgID}
	if _, exists := s.memberships[key]; !exists {
		return store.ErrMembershipNotFound
	}

	delete(s.memberships, key)
	return nil
}
