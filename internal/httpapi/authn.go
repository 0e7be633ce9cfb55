package httpapi

import (
	"errors"
	"net/http"

	"timbal.com.mx/internal/auth"
)

const authHeader = "Authorization"

var publicPaths = []string{
	"/v1/auth/token",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

func (a *API) withAuth(next http.Handler) http.Handler {
	if a == nil || a.verifier == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := a.verifier.Verify(r.Context(), r.Header.Get(authHeader))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingCredential):
				writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			case errors.Is(err, auth.ErrInvalidCredential):
				writeError(w, r, http.StatusUnauthorized, "invalid token")
			case errors.Is(err, auth.ErrProfileNotFound):
				writeError(w, r, http.StatusUnauthorized, "no profile for this user")
			default:
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		token, _ := auth.BearerToken(r.Header.Get(authHeader))
		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
