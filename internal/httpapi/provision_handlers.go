package httpapi

import (
	"errors"
	"net/http"

	"timbal.com.mx/internal/audit"
	"timbal.com.mx/internal/auth"
	"timbal.com.mx/internal/provider"
	"timbal.com.mx/internal/provision"
)

type provisionResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if a.provisioner == nil {
		writeError(w, r, http.StatusServiceUnavailable, "provisioning is disabled")
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req provision.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := a.provisioner.Provision(r.Context(), principal, req)
	if err != nil {
		handleProvisionError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "provision.user.created", map[string]any{
		"new_user_id": userID,
		"role":        req.Role,
	})

	writeJSON(w, http.StatusOK, provisionResponse{
		Message: "User created successfully",
		UserID:  userID,
	})
}

func handleProvisionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, provision.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "admin role required")
	case errors.Is(err, provision.ErrInvalidRequest),
		errors.Is(err, provision.ErrDomainNotAllowed),
		errors.Is(err, provider.ErrRejected):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, provider.ErrUnavailable):
		writeError(w, r, http.StatusBadGateway, "identity provider unavailable")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
