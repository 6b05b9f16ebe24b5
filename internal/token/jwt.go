// Package token implements the signed-token primitives: the HS256 session
// codec and the federated (identity provider) verifier. Pure functions over
// keys and claims; no I/O.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"walletgate/pkg/platform/sentinel"
)

// SessionClaims is the signed payload of a locally issued session token. It
// must round-trip exactly through Sign/Verify.
type SessionClaims struct {
	UserID    int64  `json:"user_id"`
	Address   string `json:"evm_address"`
	UserAgent string `json:"user_agent"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with the gateway's own secret.
type Codec struct {
	signingKey []byte
}

// NewCodec constructs a session token codec over the gateway signing secret.
func NewCodec(signingKey string) *Codec {
	return &Codec{signingKey: []byte(signingKey)}
}

// Sign serializes the claims, stamps iat/exp/jti, and signs with HS256. The
// caller owns structural preconditions on the payload (see session.Issuer).
func (c *Codec) Sign(claims SessionClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token. The result is three-way:
// claims on success, sentinel.ErrExpired when the signature is valid but the
// time window elapsed, sentinel.ErrInvalidToken for everything else. Callers
// depend on the distinction; the two rejections carry different reason codes.
func (c *Codec) Verify(raw string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("session token: %w", sentinel.ErrExpired)
		}
		return nil, fmt.Errorf("session token: %w", sentinel.ErrInvalidToken)
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("session token claims: %w", sentinel.ErrInvalidToken)
	}
	return claims, nil
}
