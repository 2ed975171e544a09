package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
	"github.com/rs/zerolog/log"
)

// dummyDigest is verified against when login targets an unknown email, so
// the unknown-email and wrong-password paths cost roughly the same.
var dummyDigest, _ = HashPassword("tenantd-dummy-credential")

// Service is the authentication application service: login, session
// validation, and account management.
type Service struct {
	users    store.UserStore
	tokens   *TokenService
	identity *IdentityResolver
}

// NewService creates the authentication service.
func NewService(users store.UserStore, tokens *TokenService) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		identity: NewIdentityResolver(tokens, users),
	}
}

// Identity exposes the identity resolver for request middleware.
func (s *Service) Identity() *IdentityResolver {
	return s.identity
}

// Login verifies the email/password pair and returns a signed session token.
// Unknown email and wrong password both fail with ErrInvalidCredentials;
// inactive accounts fail with ErrInactiveAccount.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			VerifyPassword(password, dummyDigest)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !VerifyPassword(password, user.HashedPassword) {
		return "", ErrInvalidCredentials
	}

	if !user.Active {
		return "", ErrInactiveAccount
	}

	token, err := s.tokens.Issue(user.UserID.String(), s.tokens.DefaultTTL())
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Msg("Issued session token")

	return token, nil
}

// ValidateSession resolves the token to a user and checks the active flag.
// Used by session-check endpoints and request middleware.
func (s *Service) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	user, err := s.identity.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.identity.RequireActive(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Register creates a new user with a freshly hashed password. Email
// uniqueness is enforced by the store.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	digest, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		UserID:         userID,
		Email:          email,
		HashedPassword: digest,
		Active:         true,
		FullName:       fullName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.UserID.String()).
		Msg("Registered user")

	return user, nil
}

// ChangePassword replaces the user's password digest.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}

	digest, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.HashedPassword = digest
	return s.users.Update(ctx, user)
}
