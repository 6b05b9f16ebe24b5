// Package session mints the gateway's own access tokens, binding each one to
// the identity it was issued for and the user-agent that requested it.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"walletgate/internal/device"
	"walletgate/internal/identity"
	"walletgate/internal/token"
)

// DefaultTTL is the production session lifetime.
const DefaultTTL = 24 * time.Hour

// Issuer mints session tokens via the token codec.
type Issuer struct {
	codec  *token.Codec
	ttl    time.Duration
	logger *slog.Logger
}

// NewIssuer constructs an Issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(codec *token.Codec, ttl time.Duration, logger *slog.Logger) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{codec: codec, ttl: ttl, logger: logger}
}

// TTL returns the configured session lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a session token for the identity, bound to userAgent. The
// identity's address must be the canonical 42-character EVM form; malformed
// identities are rejected before any signing attempt.
func (i *Issuer) Issue(ident *identity.Identity, userAgent string) (string, error) {
	if ident == nil {
		return "", fmt.Errorf("identity is required")
	}
	if len(ident.Address) != identity.AddressLength {
		return "", fmt.Errorf("address %q is not %d characters, refusing to mint", ident.Address, identity.AddressLength)
	}

	signed, err := i.codec.Sign(token.SessionClaims{
		UserID:    ident.ID,
		Address:   ident.Address,
		UserAgent: userAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: ident.Subject,
		},
	}, i.ttl)
	if err != nil {
		return "", err
	}

	i.logger.Info("session token issued",
		"user_id", ident.ID,
		"device", device.ParseUserAgent(userAgent),
		"ttl", i.ttl.String(),
	)
	return signed, nil
}
