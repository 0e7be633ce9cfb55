// Package provision implements admin-gated account creation. The ordering of
// checks is a correctness contract: role policy first, then request
// validation, then the domain allow-list, and only then the provider call.
package provision

import (
	"context"
	"fmt"
	"strings"

	"timbal.com.mx/internal/auth"
)

// DefaultAllowedDomain is the organizational email domain new accounts must
// belong to unless overridden.
const DefaultAllowedDomain = "timbal.com.mx"

// Directory is the subset of the identity provider used for provisioning.
type Directory interface {
	CreateUser(ctx context.Context, email, password, fullName string, role auth.Role) (string, error)
}

// Request carries the new-account fields supplied by the caller.
type Request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Service gates account creation behind the admin policy and the domain
// allow-list before delegating to the identity provider.
type Service struct {
	directory Directory
	domain    string
}

// Option configures Service behavior.
type Option func(*Service)

// WithAllowedDomain overrides the allow-listed email domain suffix.
func WithAllowedDomain(domain string) Option {
	return func(s *Service) {
		domain = strings.TrimPrefix(strings.TrimSpace(strings.ToLower(domain)), "@")
		if domain != "" {
			s.domain = domain
		}
	}
}

// NewService constructs the provisioning service.
func NewService(directory Directory, opts ...Option) (*Service, error) {
	if directory == nil {
		return nil, fmt.Errorf("provision: directory is required")
	}
	s := &Service{
		directory: directory,
		domain:    DefaultAllowedDomain,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AllowedDomain returns the configured email domain suffix.
func (s *Service) AllowedDomain() string { return s.domain }

// Provision creates a new account on behalf of the principal. The caller's
// role is checked before any request field; a non-admin always gets
// ErrForbidden regardless of the request contents, and the provider is never
// contacted.
func (s *Service) Provision(ctx context.Context, principal auth.Principal, req Request) (string, error) {
	if !principal.IsAdmin() {
		return "", ErrForbidden
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	fullName := strings.TrimSpace(req.FullName)
	for field, value := range map[string]string{
		"email":    email,
		"password": req.Password,
		"fullName": fullName,
		"role":     strings.TrimSpace(req.Role),
	} {
		if value == "" {
			return "", fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
		}
	}
	role, ok := auth.ParseRole(req.Role)
	if !ok {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, strings.TrimSpace(req.Role))
	}

	if !emailInDomain(email, s.domain) {
		return "", fmt.Errorf("%w: email must belong to @%s", ErrDomainNotAllowed, s.domain)
	}

	// Delegation: the provider pre-confirms the email and its post-creation
	// hook materializes the profile row from the attached metadata.
	userID, err := s.directory.CreateUser(ctx, email, req.Password, fullName, role)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func emailInDomain(email, domain string) bool {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.EqualFold(email[at+1:], domain)
}
