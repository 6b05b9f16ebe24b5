package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"walletgate/pkg/platform/sentinel"
)

// InMemoryStore keeps identities in process memory for tests and dev mode.
type InMemoryStore struct {
	mu        sync.RWMutex
	bySubject map[string]*Identity
	byAddress map[string]*Identity
	nextID    int64
}

// NewInMemoryStore constructs an empty in-memory identity store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		bySubject: make(map[string]*Identity),
		byAddress: make(map[string]*Identity),
		nextID:    1,
	}
}

func (s *InMemoryStore) FindBySubject(_ context.Context, subject string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ident, ok := s.bySubject[subject]; ok {
		cp := *ident
		return &cp, nil
	}
	return nil, fmt.Errorf("identity for subject %q: %w", subject, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByCreationKey(_ context.Context, subject, address string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ident, ok := s.bySubject[subject]
	if !ok || ident.Address != address {
		return nil, fmt.Errorf("identity for subject %q and address %q: %w", subject, address, sentinel.ErrNotFound)
	}
	cp := *ident
	return &cp, nil
}

func (s *InMemoryStore) Create(_ context.Context, address, subject string) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bySubject[subject]; ok {
		return nil, fmt.Errorf("subject %q already registered: %w", subject, sentinel.ErrConflict)
	}
	if _, ok := s.byAddress[address]; ok {
		return nil, fmt.Errorf("address %q already registered: %w", address, sentinel.ErrConflict)
	}

	ident := &Identity{
		ID:        s.nextID,
		Address:   address,
		Subject:   subject,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.bySubject[subject] = ident
	s.byAddress[address] = ident

	cp := *ident
	return &cp, nil
}
