package auth

import "errors"

var (
	// ErrMissingCredential indicates the request carried no usable bearer credential.
	ErrMissingCredential = errors.New("auth: missing credential")
	// ErrInvalidCredential indicates the credential exchange failed (expired,
	// revoked or malformed token).
	ErrInvalidCredential = errors.New("auth: invalid credential")
	// ErrProfileNotFound indicates the caller authenticated but has no role record.
	ErrProfileNotFound = errors.New("auth: profile not found")
	// ErrNotConfigured indicates token verification cannot run because the
	// signing secret is absent.
	ErrNotConfigured = errors.New("auth: secret is not configured")
)
