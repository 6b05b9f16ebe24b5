package session

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletgate/internal/identity"
	"walletgate/internal/token"
)

var testCodec = token.NewCodec("test-signing-key")

func testIdentity() *identity.Identity {
	return &identity.Identity{
		ID:      7,
		Address: "0x1234567890abcdef1234567890abcdef12345678",
		Subject: "did:privy:abc123",
	}
}

func newIssuer(ttl time.Duration) *Issuer {
	return NewIssuer(testCodec, ttl, slog.New(slog.DiscardHandler))
}

func Test_Issue_ClaimsRoundTrip(t *testing.T) {
	issuer := newIssuer(0)

	signed, err := issuer.Issue(testIdentity(), "agent/1.0")
	require.NoError(t, err)

	claims, err := testCodec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", claims.Address)
	assert.Equal(t, "did:privy:abc123", claims.Subject)
	assert.Equal(t, "agent/1.0", claims.UserAgent)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, time.Minute)
}

func Test_Issue_CustomTTL(t *testing.T) {
	issuer := newIssuer(5 * time.Minute)
	assert.Equal(t, 5*time.Minute, issuer.TTL())

	signed, err := issuer.Issue(testIdentity(), "agent/1.0")
	require.NoError(t, err)

	claims, err := testCodec.Verify(signed)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func Test_Issue_RejectsMalformedAddressBeforeSigning(t *testing.T) {
	issuer := newIssuer(0)

	short := testIdentity()
	short.Address = "0x1234567890abcdef1234567890abcdef1234567" // 41 chars

	signed, err := issuer.Issue(short, "agent/1.0")
	require.Error(t, err)
	assert.Empty(t, signed)

	long := testIdentity()
	long.Address = long.Address + "00"
	_, err = issuer.Issue(long, "agent/1.0")
	require.Error(t, err)

	_, err = issuer.Issue(nil, "agent/1.0")
	require.Error(t, err)
}

func Test_Issue_BindsUserAgent(t *testing.T) {
	issuer := newIssuer(0)

	signed, err := issuer.Issue(testIdentity(), "first-agent/1.0")
	require.NoError(t, err)

	claims, err := testCodec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "first-agent/1.0", claims.UserAgent)
	assert.NotEqual(t, "second-agent/2.0", claims.UserAgent)
}
