// Package sequence issues strictly increasing, collision-free counters scoped
// by a business key. The counter is the only shared mutable state in the
// service and is mutated exclusively through the atomic Next operation.
package sequence

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrUnavailable indicates the counter storage could not be reached.
	// Safe to retry with backoff; never substitute a guessed value.
	ErrUnavailable = errors.New("sequence: allocator unavailable")
	// ErrInvalidScope indicates an empty or malformed scope key.
	ErrInvalidScope = errors.New("sequence: invalid scope")
)

// Allocator issues the next value for a scope key. Implementations must make
// the read-increment-persist cycle atomic per scope: under N concurrent calls
// the N results are pairwise distinct and each is strictly greater than the
// prior high-water mark. Gaps are acceptable, duplicates are not.
type Allocator interface {
	Next(ctx context.Context, scope string) (int64, error)
}

// ValidateScope normalizes a scope key and rejects empty or oversized ones.
func ValidateScope(scope string) (string, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return "", ErrInvalidScope
	}
	if len(scope) > 64 {
		return "", ErrInvalidScope
	}
	return scope, nil
}

// InMemory implements Allocator with in-process serialization.
// NOTE: Single-node only; production deployments use the Postgres-backed
// allocator in store/pg.
type InMemory struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewInMemory creates an empty allocator; counters are created lazily on the
// first allocation for a scope, starting at 1.
func NewInMemory() *InMemory {
	return &InMemory{counters: make(map[string]int64)}
}

// Next atomically increments and returns the counter for scope.
func (s *InMemory) Next(ctx context.Context, scope string) (int64, error) {
	scope, err := ValidateScope(scope)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[scope]++
	return s.counters[scope], nil
}

// HighWater returns the largest value issued for scope (0 when none).
func (s *InMemory) HighWater(scope string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[scope]
}

// Reset moves the counter for scope to the given value. Administrative use
// only; it is not part of the Allocator contract.
func (s *InMemory) Reset(scope string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value <= 0 {
		delete(s.counters, scope)
		return
	}
	s.counters[scope] = value
}
