package auth

import (
	"context"
	"testing"

	"github.com/oncallhq/tenantd/internal/store"
	"github.com/oncallhq/tenantd/internal/store/memory"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, store.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	return NewService(users, newTestTokenService(t)), users
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a token", func(t *testing.T) {
		svc, _ := newTestService(t)

		user, err := svc.Register(ctx, "a@x.com", "secret123", "Ada")
		require.NoError(t, err)

		token, err := svc.Login(ctx, "a@x.com", "secret123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		resolved, err := svc.ValidateSession(ctx, token)
		require.NoError(t, err)
		require.Equal(t, user.UserID, resolved.UserID)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "a@x.com", "secret123", "Ada")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "a@x.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Login(ctx, "nobody@x.com", "secret123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		svc, users := newTestService(t)

		user, err := svc.Register(ctx, "a@x.com", "secret123", "Ada")
		require.NoError(t, err)
		require.NoError(t, users.SetActive(ctx, user.UserID, false))

		_, err = svc.Login(ctx, "a@x.com", "secret123")
		require.ErrorIs(t, err, ErrInactiveAccount)
	})
}

func TestService_ValidateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid token is unauthenticated", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ValidateSession(ctx, "garbage")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("deactivation invalidates existing sessions", func(t *testing.T) {
		svc, users := newTestService(t)

		user, err := svc.Register(ctx, "a@x.com", "secret123", "Ada")
		require.NoError(t, err)

		token, err := svc.Login(ctx, "a@x.com", "secret123")
		require.NoError(t, err)

		require.NoError(t, users.SetActive(ctx, user.UserID, false))

		_, err = svc.ValidateSession(ctx, token)
		require.ErrorIs(t, err, ErrInactiveAccount)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(ctx, "a@x.com", "secret123", "Ada")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "a@x.com", "other-pass", "Imposter")
		require.ErrorIs(t, err, store.ErrUserAlreadyExists)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		svc, users := newTestService(t)

		user, err := svc.Register(ctx, "a@x.com", "secret123", "Ada")
		require.NoError(t, err)

		stored, err := users.Get(ctx, user.UserID)
		require.NoError(t, err)
		require.NotEqual(t, "secret123", stored.HashedPassword)
		require.True(t, VerifyPassword("secret123", stored.HashedPassword))
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	user, err := svc.Register(ctx, "a@x.com", "secret123", "Ada")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.UserID, "new-secret"))

	_, err = svc.Login(ctx, "a@x.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := svc.Login(ctx, "a@x.com", "new-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}
