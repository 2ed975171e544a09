package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errors
var (
	// ErrInvalidToken is returned for tokens with a bad signature, malformed
	// payload, or missing subject.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken wraps ErrInvalidToken: an expired token is a kind of
	// invalid token, but callers that care can still match it directly.
	ErrExpiredToken = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

const tokenIssuer = "tenantd"

// TokenService issues and validates signed identity tokens. Signing uses an
// HMAC-SHA256 shared secret configured once at startup.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenService creates a token service. The secret must be at least
// 32 bytes (256 bits) for HMAC-SHA256.
func NewTokenService(secret []byte, defaultTTL time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, errors.New("token secret must be at least 32 bytes (256 bits) for HMAC-SHA256")
	}
	if defaultTTL <= 0 {
		return nil, errors.New("token TTL must be greater than 0")
	}

	return &TokenService{
		secret:     secret,
		defaultTTL: defaultTTL,
	}, nil
}

// DefaultTTL returns the configured token lifetime.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue creates a signed token for the given subject expiring after ttl.
// A non-positive ttl falls back to the configured default.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    tokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies the token's signature and expiry and returns its
// subject. It fails with ErrExpiredToken after the embedded expiry and
// ErrInvalidToken for every other defect, including a missing subject.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return "", ErrExpiredToken
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
