package domain

import "errors"

// Sentinel errors shared across services and repositories. The HTTP layer maps
// them to status codes in pkg/response.
var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInactiveUser       = errors.New("inactive user")
)
