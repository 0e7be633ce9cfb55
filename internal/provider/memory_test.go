package provider

import (
	"context"
	"errors"
	"testing"

	"timbal.com.mx/internal/auth"
)

func TestCreateUserMaterializesProfile(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	id, err := m.CreateUser(ctx, "Nuevo@Timbal.com.mx", "password123", "Nuevo Usuario", auth.RoleStandard)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if id == "" {
		t.Fatal("expected user id")
	}

	profile, err := m.FindProfile(ctx, id)
	if err != nil {
		t.Fatalf("FindProfile: %v", err)
	}
	if profile.Email != "nuevo@timbal.com.mx" {
		t.Fatalf("email not normalized: %s", profile.Email)
	}
	if profile.Role != auth.RoleStandard || profile.FullName != "Nuevo Usuario" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	if _, err := m.CreateUser(ctx, "dup@timbal.com.mx", "password123", "A", auth.RoleStandard); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	_, err := m.CreateUser(ctx, "DUP@timbal.com.mx", "password456", "B", auth.RoleStandard)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestCreateUserRejectsWeakPassword(t *testing.T) {
	m := NewInMemory()
	_, err := m.CreateUser(context.Background(), "weak@timbal.com.mx", "short", "W", auth.RoleStandard)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	id, err := m.CreateUser(ctx, "login@timbal.com.mx", "password123", "L", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	identity, err := m.VerifyCredentials(ctx, "login@timbal.com.mx", "password123")
	if err != nil {
		t.Fatalf("VerifyCredentials: %v", err)
	}
	if identity.ID != id {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if _, err := m.VerifyCredentials(ctx, "login@timbal.com.mx", "wrong"); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := m.VerifyCredentials(ctx, "missing@timbal.com.mx", "password123"); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestFindProfileUnknownUser(t *testing.T) {
	m := NewInMemory()
	if _, err := m.FindProfile(context.Background(), "nope"); !errors.Is(err, auth.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
