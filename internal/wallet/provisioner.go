package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"walletgate/pkg/platform/sentinel"
)

// Provisioner hands out custodial wallets, one per owner address. Provision is
// idempotent: an existing wallet is returned, never regenerated, and a lost
// race against a concurrent duplicate resolves to the winner's record.
type Provisioner struct {
	store  Store
	logger *slog.Logger
}

// NewProvisioner constructs a Provisioner over the given store.
func NewProvisioner(store Store, logger *slog.Logger) *Provisioner {
	return &Provisioner{store: store, logger: logger}
}

// Provision returns the custodial address for ownerAddress, generating and
// storing a keypair when none exists yet.
func (p *Provisioner) Provision(ctx context.Context, ownerAddress string) (string, error) {
	if !IsHexAddress(ownerAddress) {
		return "", fmt.Errorf("owner address %q is not a valid EVM address", ownerAddress)
	}

	existing, err := p.store.FindByOwner(ctx, ownerAddress)
	if err == nil {
		return existing.CustodialAddress, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return "", fmt.Errorf("look up wallet: %w", err)
	}

	privHex, custodial, err := generateKeypair()
	if err != nil {
		return "", err
	}

	created, err := p.store.Create(ctx, &Record{
		OwnerAddress:     ownerAddress,
		CustodialAddress: custodial,
		PrivateKey:       privHex,
	})
	if errors.Is(err, sentinel.ErrConflict) {
		// Lost the race; the store's uniqueness constraint already decided
		// the winner. Return its wallet.
		winner, ferr := p.store.FindByOwner(ctx, ownerAddress)
		if ferr != nil {
			return "", fmt.Errorf("re-read wallet after conflict: %w", ferr)
		}
		return winner.CustodialAddress, nil
	}
	if err != nil {
		return "", fmt.Errorf("store wallet: %w", err)
	}

	p.logger.InfoContext(ctx, "custodial wallet provisioned",
		"owner", ownerAddress,
		"custodial", created.CustodialAddress,
	)
	return created.CustodialAddress, nil
}
