package auth

import (
	"context"
	"errors"
	"testing"
)

type stubExchanger struct {
	identity Identity
	err      error
}

func (s stubExchanger) Exchange(ctx context.Context, token string) (Identity, error) {
	return s.identity, s.err
}

type stubProfiles struct {
	profile Profile
	err     error
}

func (s stubProfiles) FindProfile(ctx context.Context, userID string) (Profile, error) {
	return s.profile, s.err
}

func TestVerifyMissingCredential(t *testing.T) {
	v, err := NewVerifier(stubExchanger{}, stubProfiles{})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	for _, header := range []string{"", "   ", "Basic abc", "Bearer", "Bearer   "} {
		if _, err := v.Verify(context.Background(), header); !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("header %q: expected ErrMissingCredential, got %v", header, err)
		}
	}
}

func TestVerifyInvalidCredential(t *testing.T) {
	v, _ := NewVerifier(stubExchanger{err: ErrInvalidCredential}, stubProfiles{})

	_, err := v.Verify(context.Background(), "Bearer expired-token")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestVerifyProfileNotFound(t *testing.T) {
	v, _ := NewVerifier(
		stubExchanger{identity: Identity{ID: "user-1", Email: "u@timbal.com.mx"}},
		stubProfiles{err: ErrProfileNotFound},
	)

	_, err := v.Verify(context.Background(), "Bearer good-token")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestVerifySuccessResolvesRole(t *testing.T) {
	v, _ := NewVerifier(
		stubExchanger{identity: Identity{ID: "user-1", Email: "u@timbal.com.mx"}},
		stubProfiles{profile: Profile{UserID: "user-1", FullName: "Usuario Uno", Role: RoleAdmin}},
	)

	principal, err := v.Verify(context.Background(), "Bearer good-token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal.Identity.ID != "user-1" || principal.Role != RoleAdmin {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.Identity.FullName != "Usuario Uno" {
		t.Fatalf("full name not filled from profile: %+v", principal.Identity)
	}
}

func TestVerifyDistinctErrorsNeverMask(t *testing.T) {
	// An exchanger failure must not surface as profile-not-found and vice versa.
	v1, _ := NewVerifier(stubExchanger{err: errors.New("provider down")}, stubProfiles{})
	_, err := v1.Verify(context.Background(), "Bearer t")
	if !errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("exchange failure mapped incorrectly: %v", err)
	}

	v2, _ := NewVerifier(
		stubExchanger{identity: Identity{ID: "user-1"}},
		stubProfiles{profile: Profile{UserID: "user-1"}},
	)
	_, err = v2.Verify(context.Background(), "Bearer t")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("empty role must resolve to ErrProfileNotFound, got %v", err)
	}
}

func TestVerifyConfigurationErrorPassesThrough(t *testing.T) {
	v, _ := NewVerifier(stubExchanger{err: ErrNotConfigured}, stubProfiles{})
	_, err := v.Verify(context.Background(), "Bearer t")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-enough")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "s3cret-enough"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
