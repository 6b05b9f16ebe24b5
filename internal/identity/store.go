package identity

import (
	"context"
)

// Store abstracts identity persistence. Implementations return
// sentinel.ErrNotFound (wrapped) for missing records and sentinel.ErrConflict
// when a uniqueness constraint is violated.
//
// Error Contract:
// - Return wrapped sentinel.ErrNotFound when the requested identity does not exist
// - Return wrapped sentinel.ErrConflict when subject or address is already taken
// - Return wrapped infrastructure errors for anything else (DB down, etc.)
type Store interface {
	// FindBySubject looks an identity up by its federated subject alone.
	FindBySubject(ctx context.Context, subject string) (*Identity, error)

	// FindByCreationKey requires both subject and address to match the stored
	// record. Used when re-validating session tokens so a token with a forged
	// or stale embedded address never resolves.
	FindByCreationKey(ctx context.Context, subject, address string) (*Identity, error)

	// Create stores a new identity keyed by address and subject.
	Create(ctx context.Context, address, subject string) (*Identity, error)
}
