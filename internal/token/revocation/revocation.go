// Package revocation tracks revoked session-token IDs (jti). The gateway
// consults the list on every session verification so a revoked token stops
// working before its expiry.
package revocation

import (
	"context"
	"sync"
	"time"
)

// List is the revocation store contract.
type List interface {
	// Revoke marks a jti revoked for ttl (the token's remaining lifetime).
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether a jti has been revoked and not yet expired.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// InMemoryList keeps revocations in process memory for tests and dev mode.
type InMemoryList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewInMemoryList constructs an empty in-memory revocation list.
func NewInMemoryList() *InMemoryList {
	return &InMemoryList{revoked: make(map[string]time.Time)}
}

func (l *InMemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (l *InMemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	l.mu.RLock()
	until, ok := l.revoked[jti]
	l.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		l.mu.Lock()
		delete(l.revoked, jti)
		l.mu.Unlock()
		return false, nil
	}
	return true, nil
}
