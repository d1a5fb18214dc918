package auth

import "errors"

// Taxonomy of terminal request errors. Handlers and middleware branch on
// these with errors.Is and answer with a fixed generic message; the
// underlying cause is only ever logged server-side.
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrMalformedHeader   = errors.New("malformed authorization header")

	// ErrInvalidToken covers every structural, signature and expiry
	// failure. Callers must not be able to tell why a token was
	// rejected.
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")

	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrInvalidResourceID  = errors.New("invalid resource id")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("user already exists")

	ErrInternal = errors.New("internal error")
)
