package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
)

// IdentityResolver turns a validated token into a user. It is read-only.
type IdentityResolver struct {
	tokens *TokenService
	users  store.UserStore
}

// NewIdentityResolver creates an identity resolver.
func NewIdentityResolver(tokens *TokenService, users store.UserStore) *IdentityResolver {
	return &IdentityResolver{
		tokens: tokens,
		users:  users,
	}
}

// Resolve validates the token and loads the user named by its subject.
// Returns ErrUnauthenticated for any token defect, and store.ErrUserNotFound
// when the subject has no corresponding user (a data inconsistency, not an
// auth failure).
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	subject, err := r.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnauthenticated, err)
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrUnauthenticated)
	}

	return r.users.Get(ctx, userID)
}

// RequireActive rejects users whose active flag is off.
func (r *IdentityResolver) RequireActive(user *models.User) error {
	if !user.Active {
		return ErrInactiveAccount
	}
	return nil
}
