package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokens share the cache keyspace with other consumers, so they are prefixed
const tokenKeyPrefix = "auth_"

// RedisTokenStore persists session tokens in Redis with per-key expiry.
// Token lifetime is enforced by the cache itself, not by application polling.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore wraps an already-constructed Redis client. Lifecycle of
// the client belongs to the composition root.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	if client == nil {
		panic("auth: redis client must not be nil")
	}
	return &RedisTokenStore{client: client}
}

// Save stores the token to user-id mapping with the provided TTL.
func (s *RedisTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Find resolves a token to its user id. A missing or expired key is reported
// through ok=false with a nil error.
func (s *RedisTokenStore) Find(ctx context.Context, token string) (string, bool, error) {
	userID, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return userID, true, nil
}

// Delete removes the mapping. Deleting an absent token is not an error.
func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Ping checks connectivity to the cache.
func (s *RedisTokenStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

var _ TokenStore = (*RedisTokenStore)(nil)
