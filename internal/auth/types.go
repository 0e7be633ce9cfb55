package auth

import (
	"context"
	"strings"
)

// Role is the coarse access level attached to a profile.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// ParseRole normalizes a raw role string against the known set.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleStandard:
		return RoleStandard, true
	default:
		return "", false
	}
}

// Identity is the caller record resolved from the identity provider. It is
// read-only to this service.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// Profile is the role record kept alongside an identity.
type Profile struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// Principal is the fully verified caller: identity plus resolved role.
// Verification is all-or-nothing, so a Principal never carries a partial state.
type Principal struct {
	Identity Identity
	Role     Role
}

// IsAdmin reports whether the principal passes the admin policy.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Exchanger swaps an opaque bearer token for the caller's identity record.
type Exchanger interface {
	Exchange(ctx context.Context, token string) (Identity, error)
}

// ProfileStore resolves the role record for an identity.
type ProfileStore interface {
	FindProfile(ctx context.Context, userID string) (Profile, error)
}
