// Package pg backs the sequence allocator and the profile store with
// Postgres. The counter increment is a single INSERT ... ON CONFLICT DO UPDATE
// statement, so lazy counter creation and the increment commit atomically and
// concurrent allocations serialize on the row.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"timbal.com.mx/internal/auth"
	"timbal.com.mx/internal/sequence"
)

type Store struct {
	db *sql.DB
}

var _ sequence.Allocator = (*Store)(nil)
var _ auth.ProfileStore = (*Store)(nil)

// Open connects to Postgres with pool defaults tuned for the API workload.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing handle (used by tests).
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Next atomically increments the counter for scope and returns the new value.
// The first allocation for a scope inserts the row with value 1; racing
// first-time allocations serialize on the primary key, so no value is ever
// issued twice. Storage errors surface as sequence.ErrUnavailable.
func (s *Store) Next(ctx context.Context, scope string) (int64, error) {
	scope, err := sequence.ValidateScope(scope)
	if err != nil {
		return 0, err
	}

	var value int64
	err = s.db.QueryRowContext(ctx, `
		insert into order_counters(scope, value)
		values ($1, 1)
		on conflict (scope) do update
		set value = order_counters.value + 1, updated_at = now()
		returning value
	`, scope).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", sequence.ErrUnavailable, err)
	}
	return value, nil
}

// HighWater reads the current counter value without consuming one.
func (s *Store) HighWater(ctx context.Context, scope string) (int64, error) {
	scope, err := sequence.ValidateScope(scope)
	if err != nil {
		return 0, err
	}
	var value int64
	err = s.db.QueryRowContext(ctx, `select value from order_counters where scope = $1`, scope).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", sequence.ErrUnavailable, err)
	}
	return value, nil
}

// FindProfile resolves the role record for an identity. Profiles are written
// by the identity provider's post-creation trigger; this service only reads.
func (s *Store) FindProfile(ctx context.Context, userID string) (auth.Profile, error) {
	var p auth.Profile
	var role string
	err := s.db.QueryRowContext(ctx, `
		select user_id, email, full_name, role
		from profiles where user_id = $1
	`, userID).Scan(&p.UserID, &p.Email, &p.FullName, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Profile{}, auth.ErrProfileNotFound
	}
	if err != nil {
		return auth.Profile{}, fmt.Errorf("find profile: %w", err)
	}
	parsed, ok := auth.ParseRole(role)
	if !ok {
		return auth.Profile{}, fmt.Errorf("find profile: unknown role %q", role)
	}
	p.Role = parsed
	return p, nil
}
