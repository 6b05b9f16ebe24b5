// Package wallet provisions custodial wallets: one secp256k1 keypair per
// owner address, held by this system on the user's behalf.
package wallet

import (
	"context"
	"time"
)

// Record is a stored custodial wallet. PrivateKey is hex-encoded key material;
// it never leaves the store layer.
type Record struct {
	ID               int64
	OwnerAddress     string
	CustodialAddress string
	PrivateKey       string
	CreatedAt        time.Time
}

// Store abstracts wallet persistence. OwnerAddress is unique; the store's
// uniqueness constraint, not gateway-side locking, is what prevents duplicate
// wallets under concurrent provisioning.
//
// Error Contract:
// - FindByOwner returns wrapped sentinel.ErrNotFound when no wallet exists
// - Create returns wrapped sentinel.ErrConflict when the owner already has one
type Store interface {
	FindByOwner(ctx context.Context, ownerAddress string) (*Record, error)
	Create(ctx context.Context, rec *Record) (*Record, error)
}
