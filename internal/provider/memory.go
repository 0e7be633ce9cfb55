package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"timbal.com.mx/internal/auth"
)

const minPasswordLength = 8

type memoryUser struct {
	id           string
	email        string
	passwordHash string
	profile      auth.Profile
	createdAt    time.Time
}

// InMemory implements the provider contract in-process. It mirrors the hosted
// provider's behavior: account creation pre-confirms the email and the profile
// row appears as a post-creation side effect.
// NOTE: Single-node only; production deployments use Client plus Postgres.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[string]*memoryUser
	byEmail map[string]*memoryUser
}

// NewInMemory creates an empty in-memory provider.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[string]*memoryUser),
		byEmail: make(map[string]*memoryUser),
	}
}

// CreateUser registers an account and materializes its profile row.
func (m *InMemory) CreateUser(ctx context.Context, email, password, fullName string, role auth.Role) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrRejected)
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password should be at least %d characters", ErrRejected, minPasswordLength)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRejected, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[email]; exists {
		return "", fmt.Errorf("%w: a user with this email address has already been registered", ErrRejected)
	}

	u := &memoryUser{
		id:           uuid.NewString(),
		email:        email,
		passwordHash: hash,
		createdAt:    time.Now().UTC(),
	}
	u.profile = auth.Profile{
		UserID:   u.id,
		Email:    email,
		FullName: fullName,
		Role:     role,
	}
	m.byID[u.id] = u
	m.byEmail[email] = u
	return u.id, nil
}

// FindProfile returns the role record materialized at creation time.
func (m *InMemory) FindProfile(ctx context.Context, userID string) (auth.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[userID]
	if !ok {
		return auth.Profile{}, auth.ErrProfileNotFound
	}
	return u.profile, nil
}

// SeedProfile inserts a profile without going through account creation.
// Used to bootstrap the first administrator in dev setups and tests.
func (m *InMemory) SeedProfile(profile auth.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &memoryUser{
		id:        profile.UserID,
		email:     strings.ToLower(profile.Email),
		profile:   profile,
		createdAt: time.Now().UTC(),
	}
	m.byID[u.id] = u
	m.byEmail[u.email] = u
}

// VerifyCredentials checks email/password against stored accounts. Exposed for
// dev-mode token minting.
func (m *InMemory) VerifyCredentials(ctx context.Context, email, password string) (auth.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	m.mu.RLock()
	u, ok := m.byEmail[email]
	m.mu.RUnlock()
	if !ok {
		return auth.Identity{}, auth.ErrInvalidCredential
	}
	if err := auth.VerifyPassword(u.passwordHash, password); err != nil {
		return auth.Identity{}, auth.ErrInvalidCredential
	}
	return auth.Identity{ID: u.id, Email: u.email, FullName: u.profile.FullName}, nil
}
