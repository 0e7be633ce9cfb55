package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const bearerScheme = "Bearer "

// Verifier resolves a bearer credential into a Principal. It performs two
// sequential fallible lookups: the credential exchange against the identity
// provider, then the role lookup against the profile store. Each failure keeps
// its own error kind so callers can react differently.
type Verifier struct {
	exchanger Exchanger
	profiles  ProfileStore
}

// NewVerifier constructs a Verifier from its two collaborators.
func NewVerifier(exchanger Exchanger, profiles ProfileStore) (*Verifier, error) {
	if exchanger == nil {
		return nil, errors.New("auth: exchanger is required")
	}
	if profiles == nil {
		return nil, errors.New("auth: profile store is required")
	}
	return &Verifier{exchanger: exchanger, profiles: profiles}, nil
}

// Verify authenticates the raw Authorization header value and returns the
// caller with its resolved role. Verification is all-or-nothing.
func (v *Verifier) Verify(ctx context.Context, authorization string) (Principal, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return Principal{}, err
	}

	identity, err := v.exchanger.Exchange(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return Principal{}, err
		}
		if errors.Is(err, ErrInvalidCredential) {
			return Principal{}, err
		}
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	profile, err := v.profiles.FindProfile(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return Principal{}, err
		}
		return Principal{}, fmt.Errorf("lookup profile: %w", err)
	}
	if profile.Role == "" {
		return Principal{}, ErrProfileNotFound
	}
	if identity.FullName == "" {
		identity.FullName = profile.FullName
	}
	return Principal{Identity: identity, Role: profile.Role}, nil
}

// BearerToken extracts the opaque credential from an Authorization header
// value. An empty header or a non-bearer scheme fails with ErrMissingCredential.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingCredential
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerScheme)) {
		return "", ErrMissingCredential
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}
