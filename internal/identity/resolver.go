package identity

import (
	"context"
	"fmt"
)

// WalletProvisioner generates (or returns the existing) custodial wallet for
// an owner address. Implemented by internal/wallet.
type WalletProvisioner interface {
	Provision(ctx context.Context, ownerAddress string) (string, error)
}

// Resolver maps verified claims to stored identities and provisions custodial
// wallets on the session path. It never writes identity records itself.
type Resolver struct {
	store   Store
	wallets WalletProvisioner
}

// NewResolver constructs a Resolver over the given store and provisioner.
func NewResolver(store Store, wallets WalletProvisioner) *Resolver {
	return &Resolver{store: store, wallets: wallets}
}

// FindBySubject resolves a federated subject to its identity record.
func (r *Resolver) FindBySubject(ctx context.Context, subject string) (*Identity, error) {
	return r.store.FindBySubject(ctx, subject)
}

// FindByCreationKey resolves an identity only when both the subject and the
// address embedded in a session token match the stored record.
func (r *Resolver) FindByCreationKey(ctx context.Context, subject, address string) (*Identity, error) {
	return r.store.FindByCreationKey(ctx, subject, address)
}

// ProvisionWallet returns the custodial wallet address for the owner,
// generating one if none exists. A provisioning failure is always surfaced;
// callers must not authorize a request on a failed provision.
func (r *Resolver) ProvisionWallet(ctx context.Context, ownerAddress string) (string, error) {
	custodial, err := r.wallets.Provision(ctx, ownerAddress)
	if err != nil {
		return "", fmt.Errorf("provision wallet for %s: %w", ownerAddress, err)
	}
	return custodial, nil
}
