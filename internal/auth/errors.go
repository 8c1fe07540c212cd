package auth

import "errors"

// The flows recover every failure into one of these outcomes. Verification
// failures of any kind (bad signature, expired, blacklisted, fingerprint
// mismatch) collapse into ErrUnauthenticated so the response never leaks
// which check failed.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrAccountDisabled     = errors.New("account is deactivated")
)
