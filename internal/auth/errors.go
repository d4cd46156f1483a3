package auth

import "errors"

// Sentinel errors returned by the authenticator and user store.
// The web layer maps these onto HTTP status codes.
var (
	ErrNoToken        = errors.New("access denied: no token provided")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrUserNotFound   = errors.New("user not found")
	ErrForbidden      = errors.New("access denied: insufficient permissions")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)
