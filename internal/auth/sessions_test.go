package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSessionsCreateAndResolve(t *testing.T) {
	sessions := NewSessions(time.Hour, NewInMemoryTokenStore())

	token, err := sessions.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	other, err := sessions.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if other == token {
		t.Fatal("expected unique tokens per login")
	}

	userID, err := sessions.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1 got %q", userID)
	}

	if _, err := sessions.Resolve(context.Background(), other); err != nil {
		t.Fatalf("concurrent tokens must both resolve: %v", err)
	}
}

func TestSessionsCreateValidation(t *testing.T) {
	sessions := NewSessions(time.Hour, NewInMemoryTokenStore())
	if _, err := sessions.Create(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestSessionsResolveAfterExpiry(t *testing.T) {
	store := NewInMemoryTokenStore()
	now := time.Now()
	store.WithNowFunc(func() time.Time { return now })

	sessions := NewSessions(time.Minute, store)

	token, err := sessions.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = now.Add(2 * time.Minute)

	if _, err := sessions.Resolve(context.Background(), token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session not found after expiry, got %v", err)
	}
}

func TestSessionsRevoke(t *testing.T) {
	sessions := NewSessions(time.Hour, NewInMemoryTokenStore())

	token, err := sessions.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := sessions.Revoke(context.Background(), token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := sessions.Resolve(context.Background(), token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session not found after revoke, got %v", err)
	}

	// Revoking again, or revoking an unknown token, is a no-op.
	if err := sessions.Revoke(context.Background(), token); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if err := sessions.Revoke(context.Background(), "never-issued"); err != nil {
		t.Fatalf("revoke unknown token: %v", err)
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, string, time.Duration) error {
	return ErrStoreUnavailable
}

func (failingStore) Find(context.Context, string) (string, bool, error) {
	return "", false, ErrStoreUnavailable
}

func (failingStore) Delete(context.Context, string) error { return ErrStoreUnavailable }
func (failingStore) Ping(context.Context) error           { return ErrStoreUnavailable }

func TestSessionsStoreUnavailable(t *testing.T) {
	sessions := NewSessions(time.Hour, failingStore{})

	if _, err := sessions.Create(context.Background(), "user-1"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable from create, got %v", err)
	}
	if _, err := sessions.Resolve(context.Background(), "token"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable from resolve, got %v", err)
	}
	if err := sessions.Revoke(context.Background(), "token"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable from revoke, got %v", err)
	}
	if sessions.Alive(context.Background()) {
		t.Fatal("expected alive=false when the cache is unreachable")
	}
}
