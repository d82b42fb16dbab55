package domain

import "errors"

// Credential errors, mapped to user-facing messages at the handler layer.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailInUse         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too weak")
	ErrTooManyAttempts    = errors.New("too many failed attempts")
)

// Document errors.
var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidReport = errors.New("invalid report")
	ErrStaleWrite    = errors.New("stale write: report changed since last read")
	ErrEmptyMessage  = errors.New("message text is empty")
)

// Access errors.
var (
	ErrForbidden      = errors.New("forbidden")
	ErrRoleUnresolved = errors.New("role not assigned")
)

// ErrProfileWrite marks a registration that failed after the credential was
// already created. Callers must surface it distinctly from credential-stage
// failures; the service compensates by deleting the credential.
var ErrProfileWrite = errors.New("profile write failed")
