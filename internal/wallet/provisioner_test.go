package wallet

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerAddress = "0x1234567890abcdef1234567890abcdef12345678"

func newProvisioner() (*Provisioner, *InMemoryStore) {
	store := NewInMemoryStore()
	return NewProvisioner(store, slog.New(slog.DiscardHandler)), store
}

func Test_Provision_GeneratesValidAddress(t *testing.T) {
	ctx := context.Background()
	prov, store := newProvisioner()

	custodial, err := prov.Provision(ctx, ownerAddress)
	require.NoError(t, err)
	assert.True(t, IsHexAddress(custodial), "custodial address %q not canonical", custodial)
	assert.NotEqual(t, ownerAddress, custodial)

	rec, err := store.FindByOwner(ctx, ownerAddress)
	require.NoError(t, err)
	assert.Equal(t, custodial, rec.CustodialAddress)
	assert.Len(t, rec.PrivateKey, 2+64)
	assert.True(t, rec.PrivateKey[:2] == "0x")
}

func Test_Provision_Idempotent(t *testing.T) {
	ctx := context.Background()
	prov, _ := newProvisioner()

	first, err := prov.Provision(ctx, ownerAddress)
	require.NoError(t, err)

	second, err := prov.Provision(ctx, ownerAddress)
	require.NoError(t, err)
	assert.Equal(t, first, second, "existing wallet must be returned, not regenerated")
}

func Test_Provision_RejectsMalformedOwner(t *testing.T) {
	ctx := context.Background()
	prov, _ := newProvisioner()

	for _, owner := range []string{
		"",
		"0x1234",
		"1234567890abcdef1234567890abcdef12345678xx", // no 0x prefix
		"0x1234567890abcdef1234567890abcdef1234567",  // 41 chars
		"0xzz34567890abcdef1234567890abcdef12345678", // non-hex
	} {
		_, err := prov.Provision(ctx, owner)
		assert.Error(t, err, "owner %q", owner)
	}
}

func Test_Provision_ConcurrentDuplicatesYieldOneWallet(t *testing.T) {
	ctx := context.Background()
	prov, store := newProvisioner()

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = prov.Provision(ctx, ownerAddress)
		}(i)
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i], "all callers must observe the same wallet")
	}

	rec, err := store.FindByOwner(ctx, ownerAddress)
	require.NoError(t, err)
	assert.Equal(t, results[0], rec.CustodialAddress)
}

func Test_GenerateKeypair_DistinctPerCall(t *testing.T) {
	_, addr1, err := generateKeypair()
	require.NoError(t, err)
	_, addr2, err := generateKeypair()
	require.NoError(t, err)
	assert.NotEqual(t, addr1, addr2)
}

func Test_ChecksumAddress_KnownVector(t *testing.T) {
	// EIP-55 reference vector.
	raw := [20]byte{0x5a, 0xAe, 0xb6, 0x05, 0x3F, 0x3E, 0x94, 0xC9, 0xb9, 0xA0,
		0x9f, 0x33, 0x66, 0x94, 0x35, 0xE7, 0xEf, 0x1B, 0xeA, 0xed}
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", checksumAddress(raw[:]))
}

func Test_IsHexAddress(t *testing.T) {
	assert.True(t, IsHexAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.True(t, IsHexAddress(ownerAddress))
	assert.False(t, IsHexAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe"))
	assert.False(t, IsHexAddress("5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed00"))
	assert.False(t, IsHexAddress(""))
}
