package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"walletgate/pkg/platform/sentinel"
)

// InMemoryStore keeps wallet records in process memory for tests and dev mode.
type InMemoryStore struct {
	mu      sync.RWMutex
	byOwner map[string]*Record
	nextID  int64
}

// NewInMemoryStore constructs an empty in-memory wallet store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byOwner: make(map[string]*Record), nextID: 1}
}

func (s *InMemoryStore) FindByOwner(_ context.Context, ownerAddress string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.byOwner[ownerAddress]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, fmt.Errorf("wallet for %s: %w", ownerAddress, sentinel.ErrNotFound)
}

func (s *InMemoryStore) Create(_ context.Context, rec *Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byOwner[rec.OwnerAddress]; ok {
		return nil, fmt.Errorf("wallet for %s exists: %w", rec.OwnerAddress, sentinel.ErrConflict)
	}

	stored := *rec
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	s.nextID++
	s.byOwner[stored.OwnerAddress] = &stored

	cp := stored
	return &cp, nil
}
