package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSessionNotFound indicates the provided token does not map to an
	// active session. Expired and never-issued tokens are indistinguishable.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreUnavailable indicates the backing cache could not be reached.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// TokenStore is the key-value cache holding token to user-id mappings.
// Find distinguishes "key missing" (ok=false, nil error) from "the store
// could not answer" (non-nil error); callers must never conflate the two.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Find(ctx context.Context, token string) (userID string, ok bool, err error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}
