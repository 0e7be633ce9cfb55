package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"timbal.com.mx/internal/auth"
	"timbal.com.mx/internal/provider"
)

func newAuthedMux(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("TIMBAL_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()

	directory := provider.NewInMemory()
	directory.SeedProfile(auth.Profile{
		UserID: "u-1",
		Email:  "u1@timbal.com.mx",
		Role:   auth.RoleStandard,
	})
	verifier, err := auth.NewVerifier(auth.LocalExchanger{}, directory)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	a := &API{verifier: verifier}
	return a.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			t.Error("principal missing from context")
		}
		if principal.Role != auth.RoleStandard {
			t.Errorf("role = %q", principal.Role)
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestWithAuthPublicPathsSkipVerification(t *testing.T) {
	t.Setenv("TIMBAL_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()

	directory := provider.NewInMemory()
	verifier, err := auth.NewVerifier(auth.LocalExchanger{}, directory)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	a := &API{verifier: verifier}
	h := a.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/v1/info", "/v1/auth/token", "/"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("public path %s status = %d", path, rec.Code)
		}
	}
}

func TestWithAuthAttachesPrincipal(t *testing.T) {
	h := newAuthedMux(t)

	token, err := auth.GenerateToken("u-1", "u1@timbal.com.mx", tokenTTL)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/sequence/next", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWithAuthRejectionStatuses(t *testing.T) {
	h := newAuthedMux(t)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/sequence/next", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestWithAuthUnknownProfileRejected(t *testing.T) {
	h := newAuthedMux(t)

	token, err := auth.GenerateToken("nobody", "nobody@timbal.com.mx", tokenTTL)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/sequence/next", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
