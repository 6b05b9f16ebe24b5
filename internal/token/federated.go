package token

import (
	"crypto"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"walletgate/pkg/platform/sentinel"
)

// FederatedClaims are the verified claims of an identity-provider token. They
// are never persisted; every request re-verifies.
type FederatedClaims struct {
	Subject   string
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
}

// FederatedVerifier validates tokens issued by the external identity provider
// against its public key, fixed issuer, and this deployment's audience.
type FederatedVerifier struct {
	key          crypto.PublicKey
	validMethods []string
	issuer       string
	audience     string
}

// NormalizeKeyMaterial turns escaped `\n` sequences into real line breaks.
// Multi-line PEM keys stored in single-line configuration arrive with the
// escapes intact and are unusable until unescaped.
func NormalizeKeyMaterial(raw string) string {
	return strings.ReplaceAll(raw, `\n`, "\n")
}

// NewFederatedVerifier parses the provider's PEM public key (EC or RSA) and
// fixes the expected issuer and audience.
func NewFederatedVerifier(pemKey, issuer, audience string) (*FederatedVerifier, error) {
	pemKey = NormalizeKeyMaterial(pemKey)

	if key, err := jwt.ParseECPublicKeyFromPEM([]byte(pemKey)); err == nil {
		return &FederatedVerifier{
			key:          key,
			validMethods: []string{jwt.SigningMethodES256.Alg()},
			issuer:       issuer,
			audience:     audience,
		}, nil
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("parse federated verification key: %w", err)
	}
	return &FederatedVerifier{
		key:          key,
		validMethods: []string{jwt.SigningMethodRS256.Alg()},
		issuer:       issuer,
		audience:     audience,
	}, nil
}

// Verify checks signature, issuer, audience, and expiry. Same three-way
// contract as Codec.Verify: claims, sentinel.ErrExpired, or
// sentinel.ErrInvalidToken.
func (v *FederatedVerifier) Verify(raw string) (*FederatedClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) { return v.key, nil },
		jwt.WithValidMethods(v.validMethods),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("federated token: %w", sentinel.ErrExpired)
		}
		return nil, fmt.Errorf("federated token: %w", sentinel.ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("federated token missing subject: %w", sentinel.ErrInvalidToken)
	}

	fc := &FederatedClaims{
		Subject:  claims.Subject,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
	}
	if claims.ExpiresAt != nil {
		fc.ExpiresAt = claims.ExpiresAt.Time
	}
	return fc, nil
}
