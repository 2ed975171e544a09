package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
	"github.com/oncallhq/tenantd/internal/store/memory"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, users store.UserStore, active bool) *models.User {
	t.Helper()

	userID, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		UserID:         userID,
		Email:          userID.String() + "@example.com",
		HashedPassword: "digest",
		Active:         active,
		FullName:       "Test User",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestIdentityResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	tokens := newTestTokenService(t)
	users := memory.NewUserStore()
	resolver := NewIdentityResolver(tokens, users)

	t.Run("valid token resolves to user", func(t *testing.T) {
		user := newTestUser(t, users, true)

		token, err := tokens.Issue(user.UserID.String(), time.Minute)
		require.NoError(t, err)

		resolved, err := resolver.Resolve(ctx, token)
		require.NoError(t, err)
		require.Equal(t, user.UserID, resolved.UserID)
		require.Equal(t, user.Email, resolved.Email)
	})

	t.Run("invalid token is unauthenticated", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "garbage")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired token is unauthenticated", func(t *testing.T) {
		user := newTestUser(t, users, true)

		token, err := tokens.Issue(user.UserID.String(), time.Nanosecond)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		_, err = resolver.Resolve(ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("subject without user is not found", func(t *testing.T) {
		ghostID, err := uuid.NewV7()
		require.NoError(t, err)

		token, err := tokens.Issue(ghostID.String(), time.Minute)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, token)
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("non-uuid subject is unauthenticated", func(t *testing.T) {
		token, err := tokens.Issue("not-a-uuid", time.Minute)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestIdentityResolver_RequireActive(t *testing.T) {
	tokens := newTestTokenService(t)
	users := memory.NewUserStore()
	resolver := NewIdentityResolver(tokens, users)

	t.Run("active user passes", func(t *testing.T) {
		user := newTestUser(t, users, true)
		require.NoError(t, resolver.RequireActive(user))
	})

	t.Run("inactive user fails", func(t *testing.T) {
		user := newTestUser(t, users, false)
		require.ErrorIs(t, resolver.RequireActive(user), ErrInactiveAccount)
	})
}
