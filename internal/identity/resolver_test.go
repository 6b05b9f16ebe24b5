package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"walletgate/internal/identity"
	mockidentity "walletgate/mocks/identity"
	"walletgate/pkg/platform/sentinel"
)

const (
	subject   = "did:privy:abc123"
	address   = "0x1234567890abcdef1234567890abcdef12345678"
	custodial = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
)

func TestResolver_FindBySubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockidentity.NewMockStore(ctrl)
	resolver := identity.NewResolver(store, mockidentity.NewMockWalletProvisioner(ctrl))

	want := &identity.Identity{ID: 7, Address: address, Subject: subject}
	store.EXPECT().FindBySubject(gomock.Any(), subject).Return(want, nil)

	got, err := resolver.FindBySubject(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolver_FindByCreationKey_NotFoundFlowsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockidentity.NewMockStore(ctrl)
	resolver := identity.NewResolver(store, mockidentity.NewMockWalletProvisioner(ctrl))

	store.EXPECT().FindByCreationKey(gomock.Any(), subject, address).
		Return(nil, sentinel.ErrNotFound)

	_, err := resolver.FindByCreationKey(context.Background(), subject, address)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestResolver_ProvisionWallet(t *testing.T) {
	t.Run("returns custodial address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		wallets := mockidentity.NewMockWalletProvisioner(ctrl)
		resolver := identity.NewResolver(mockidentity.NewMockStore(ctrl), wallets)

		wallets.EXPECT().Provision(gomock.Any(), address).Return(custodial, nil)

		got, err := resolver.ProvisionWallet(context.Background(), address)
		require.NoError(t, err)
		assert.Equal(t, custodial, got)
	})

	t.Run("failure is surfaced, never swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		wallets := mockidentity.NewMockWalletProvisioner(ctrl)
		resolver := identity.NewResolver(mockidentity.NewMockStore(ctrl), wallets)

		boom := errors.New("keygen unavailable")
		wallets.EXPECT().Provision(gomock.Any(), address).Return("", boom)

		got, err := resolver.ProvisionWallet(context.Background(), address)
		require.ErrorIs(t, err, boom)
		assert.Empty(t, got)
	})
}
