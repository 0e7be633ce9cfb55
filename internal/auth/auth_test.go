package auth

import (
	"context"
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("TIMBAL_AUTH_SECRET", "test-secret")
	ResetSecretForTests()

	token, err := GenerateToken("user-42", "Ana.Reyes@Timbal.com.mx", 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Email != "ana.reyes@timbal.com.mx" {
		t.Fatalf("email was not normalized: %s", claims.Email)
	}
	if claims.Issuer != issuer {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	t.Setenv("TIMBAL_AUTH_SECRET", "test-secret")
	ResetSecretForTests()

	if _, err := GenerateToken("  ", "x@timbal.com.mx", time.Minute); err == nil {
		t.Fatal("expected error for empty user id")
	}
	if _, err := GenerateToken("user-1", "x@timbal.com.mx", 0); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}

func TestMissingSecretIsConfigurationError(t *testing.T) {
	t.Setenv("TIMBAL_AUTH_SECRET", "")
	ResetSecretForTests()

	_, err := GenerateToken("user-1", "x@timbal.com.mx", time.Minute)
	if err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestParseAndValidateRejectsGarbage(t *testing.T) {
	t.Setenv("TIMBAL_AUTH_SECRET", "test-secret")
	ResetSecretForTests()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ParseAndValidate(token); err != ErrInvalidCredential {
			t.Fatalf("token %q: expected ErrInvalidCredential, got %v", token, err)
		}
	}
}

func TestParseAndValidateRejectsExpired(t *testing.T) {
	t.Setenv("TIMBAL_AUTH_SECRET", "test-secret")
	ResetSecretForTests()

	token, err := GenerateToken("user-1", "x@timbal.com.mx", time.Millisecond)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := ParseAndValidate(token); err != ErrInvalidCredential {
		t.Fatalf("expected ErrInvalidCredential for expired token, got %v", err)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	principal := Principal{
		Identity: Identity{ID: "user-7", Email: "u@timbal.com.mx"},
		Role:     RoleAdmin,
	}
	ctx = ContextWithPrincipal(ctx, principal)
	ctx = ContextWithToken(ctx, "raw-token")

	got, ok := PrincipalFromContext(ctx)
	if !ok || got.Identity.ID != "user-7" || !got.IsAdmin() {
		t.Fatalf("unexpected principal: %+v ok=%v", got, ok)
	}
	token, ok := TokenFromContext(ctx)
	if !ok || token != "raw-token" {
		t.Fatalf("unexpected token: %q ok=%v", token, ok)
	}

	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatal("expected no principal in empty context")
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]struct {
		role Role
		ok   bool
	}{
		"admin":    {RoleAdmin, true},
		" Admin ":  {RoleAdmin, true},
		"STANDARD": {RoleStandard, true},
		"owner":    {"", false},
		"":         {"", false},
	}
	for raw, want := range cases {
		role, ok := ParseRole(raw)
		if role != want.role || ok != want.ok {
			t.Fatalf("ParseRole(%q) = (%q, %v), want (%q, %v)", raw, role, ok, want.role, want.ok)
		}
	}
}
