package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "identity:sub:"
	cacheTTL       = 5 * time.Minute
)

// CachedStore is a read-through Redis cache in front of another Store. Cache
// misses and Redis failures fall back to the inner store; a broken cache must
// never fail an otherwise valid lookup.
type CachedStore struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

// NewCachedStore wraps inner with a Redis read-through cache.
func NewCachedStore(inner Store, client *redis.Client, logger *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, logger: logger}
}

func (s *CachedStore) FindBySubject(ctx context.Context, subject string) (*Identity, error) {
	if ident := s.get(ctx, subject); ident != nil {
		return ident, nil
	}

	ident, err := s.inner.FindBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	s.put(ctx, ident)
	return ident, nil
}

func (s *CachedStore) FindByCreationKey(ctx context.Context, subject, address string) (*Identity, error) {
	// The cached record is keyed by subject only; the address check still has
	// to hold against whatever is cached.
	if ident := s.get(ctx, subject); ident != nil && ident.Address == address {
		return ident, nil
	}

	ident, err := s.inner.FindByCreationKey(ctx, subject, address)
	if err != nil {
		return nil, err
	}
	s.put(ctx, ident)
	return ident, nil
}

func (s *CachedStore) Create(ctx context.Context, address, subject string) (*Identity, error) {
	ident, err := s.inner.Create(ctx, address, subject)
	if err != nil {
		return nil, err
	}
	s.put(ctx, ident)
	return ident, nil
}

func (s *CachedStore) get(ctx context.Context, subject string) *Identity {
	raw, err := s.client.Get(ctx, cacheKeyPrefix+subject).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "identity cache read failed", "error", err)
		return nil
	}

	var ident Identity
	if err := json.Unmarshal(raw, &ident); err != nil {
		s.logger.WarnContext(ctx, "identity cache entry corrupt", "error", err)
		return nil
	}
	return &ident
}

func (s *CachedStore) put(ctx context.Context, ident *Identity) {
	raw, err := json.Marshal(ident)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, cacheKeyPrefix+ident.Subject, raw, cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "identity cache write failed", "error", err)
	}
}
