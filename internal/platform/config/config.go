// Package config loads process configuration once, at startup. The resulting
// struct is immutable and passed into constructors; nothing reads the
// environment after FromEnv returns.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures everything the gateway process needs to run.
type Server struct {
	Addr string

	// SessionSigningKey signs and verifies locally issued session tokens.
	SessionSigningKey string
	// SessionTTL is the lifetime of minted session tokens.
	SessionTTL time.Duration

	// FederatedVerificationKey is the identity provider's public key, PEM,
	// possibly with escaped newlines (normalized by the verifier).
	FederatedVerificationKey string
	// FederatedIssuer is the expected iss claim on provider tokens.
	FederatedIssuer string
	// FederatedAudience is this deployment's app identifier at the provider.
	FederatedAudience string

	// DatabaseURL enables the Postgres stores; empty falls back to memory.
	DatabaseURL string
	// RedisURL enables the Redis revocation list and identity cache.
	RedisURL string

	// RateLimitPerMinute bounds requests per client IP on auth routes.
	RateLimitPerMinute int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("WALLETGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey := os.Getenv("JWT_SECRET_KEY")
	if signingKey == "" {
		// Development default; override in production.
		signingKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("FEDERATED_ISSUER")
	if issuer == "" {
		issuer = "privy.io"
	}

	return Server{
		Addr:                     addr,
		SessionSigningKey:        signingKey,
		SessionTTL:               durationFromEnv("SESSION_TTL", 24*time.Hour),
		FederatedVerificationKey: os.Getenv("FEDERATED_VERIFICATION_KEY"),
		FederatedIssuer:          issuer,
		FederatedAudience:        os.Getenv("FEDERATED_AUDIENCE"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		RateLimitPerMinute:       intFromEnv("RATE_LIMIT_PER_MINUTE", 100),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
