package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Sessions manages the lifecycle of issued bearer tokens backed by a
// key-value cache.
type Sessions struct {
	ttl   time.Duration
	store TokenStore
}

// NewSessions constructs a session manager issuing tokens with the provided TTL.
func NewSessions(ttl time.Duration, store TokenStore) *Sessions {
	if store == nil {
		panic("auth: token store must not be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{ttl: ttl, store: store}
}

// Create issues a new opaque token mapped to the provided user identifier.
func (s *Sessions) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id must be provided")
	}

	token, err := randomToken()
	if err != nil {
		return "", err
	}

	if err := s.store.Save(ctx, token, userID, s.ttl); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve maps a token back to its user id. Expired and unknown tokens both
// yield ErrSessionNotFound; an unreachable cache yields ErrStoreUnavailable,
// which callers on the request path must treat as unauthenticated.
func (s *Sessions) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrSessionNotFound
	}

	userID, ok, err := s.store.Find(ctx, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSessionNotFound
	}
	return userID, nil
}

// Revoke removes the token mapping immediately. Revoking an absent token is
// a no-op.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Delete(ctx, token)
}

// Alive reports whether the backing cache is reachable.
func (s *Sessions) Alive(ctx context.Context) bool {
	return s.store.Ping(ctx) == nil
}

func randomToken() (string, error) {
	const size = 32
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
