package auth

import "errors"

// Errors
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInactiveAccount is returned for users whose active flag is off.
	ErrInactiveAccount = errors.New("account is inactive")

	// ErrUnauthenticated is returned when a request carries a missing,
	// malformed, or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNoOrganization is returned when a user has no memberships.
	ErrNoOrganization = errors.New("user has no organization")
)
