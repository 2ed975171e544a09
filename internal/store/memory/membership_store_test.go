package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
	"github.com/stretchr/testify/require"
)

func TestMembershipStore_Add(t *testing.T) {
	ctx := context.Background()
	s := NewMembershipStore()

	userID, err := uuid.NewV7()
	require.NoError(t, err)
	orgID, err := uuid.NewV7()
	require.NoError(t, err)

	m := &models.Membership{UserID: userID, OrgID: orgID, CreatedAt: time.Now()}
	require.NoError(t, s.Add(ctx, m))
	require.ErrorIs(t, s.Add(ctx, m), store.ErrMembershipAlreadyExists)
}

func TestMembershipStore_ListByUser(t *testing.T) {
	ctx := context.Background()
	s := NewMembershipStore()

	userID, err := uuid.NewV7()
	require.NoError(t, err)
	otherUserID, err := uuid.NewV7()
	require.NoError(t, err)

	base := time.Now()
	var orgs []uuid.UUID
	for i := range 3 {
		orgID, err := uuid.NewV7()
		require.NoError(t, err)
		orgs = append(orgs, orgID)

		// Insert newest first; the list must still come back oldest first
		require.NoError(t, s.Add(ctx, &models.Membership{
			UserID:    userID,
			OrgID:     orgID,
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}))
	}

	foreignOrg, err := uuid.NewV7()
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, &models.Membership{
		UserID:    otherUserID,
		OrgID:     foreignOrg,
		CreatedAt: base.Add(-24 * time.Hour),
	}))

	memberships, err := s.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, memberships, 3)

	// Oldest first: orgs were inserted newest to oldest
	require.Equal(t, orgs[2], memberships[0].OrgID)
	require.Equal(t, orgs[1], memberships[1].OrgID)
	require.Equal(t, orgs[0], memberships[2].OrgID)

	t.Run("equal timestamps break ties by org id", func(t *testing.T) {
		s := NewMembershipStore()
		ts := time.Now()

		lowOrg := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		highOrg := uuid.MustParse("ffffffff-0000-0000-0000-000000000001")

		require.NoError(t, s.Add(ctx, &models.Membership{UserID: userID, OrgID: highOrg, CreatedAt: ts}))
		require.NoError(t, s.Add(ctx, &models.Membership{UserID: userID, OrgID: lowOrg, CreatedAt: ts}))

		memberships, err := s.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, memberships, 2)
		require.Equal(t, lowOrg, memberships[0].OrgID)
	})
}

func TestMembershipStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := NewMembershipStore()

	userID, err := uuid.NewV7()
	require.NoError(t, err)
	orgID, err := uuid.NewV7()
	require.NoError(t, err)

	require.ErrorIs(t, s.Remove(ctx, userID, orgID), store.ErrMembershipNotFound)

	require.NoError(t, s.Add(ctx, &models.Membership{UserID: userID, OrgID: orgID, CreatedAt: time.Now()}))
	require.NoError(t, s.Remove(ctx, userID, orgID))

	memberships, err := s.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, memberships)
}
