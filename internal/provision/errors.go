package provision

import "errors"

var (
	// ErrForbidden indicates the caller does not satisfy the admin policy.
	// Returned before any field of the request is even looked at.
	ErrForbidden = errors.New("provision: forbidden")
	// ErrInvalidRequest indicates a required field is missing or malformed.
	ErrInvalidRequest = errors.New("provision: invalid request")
	// ErrDomainNotAllowed indicates the target email is outside the allow-listed domain.
	ErrDomainNotAllowed = errors.New("provision: email domain not allowed")
)
