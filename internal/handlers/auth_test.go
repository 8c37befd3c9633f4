package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthHandlerConnect(t *testing.T) {
	store := newInMemoryUserStore()
	addUser(t, store, "user-1", "login@example.com", "password123")

	sessions := newTestSessions()
	handler := AuthHandler{Users: store, Sessions: sessions}

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.SetBasicAuth("login@example.com", "password123")
	rec := httptest.NewRecorder()

	handler.Connect(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	token := resp["token"]
	if token == "" {
		t.Fatal("expected a token to be issued")
	}

	userID, err := sessions.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve issued token: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected token to map to user-1, got %q", userID)
	}
}

func TestAuthHandlerConnectRejectsBadCredentials(t *testing.T) {
	store := newInMemoryUserStore()
	addUser(t, store, "user-1", "login@example.com", "password123")

	handler := AuthHandler{Users: store, Sessions: newTestSessions()}

	cases := []struct {
		name  string
		setup func(*http.Request)
	}{
		{name: "no header", setup: func(*http.Request) {}},
		{name: "unknown user", setup: func(r *http.Request) { r.SetBasicAuth("ghost@example.com", "password123") }},
		{name: "wrong password", setup: func(r *http.Request) { r.SetBasicAuth("login@example.com", "nope") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/connect", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()

			handler.Connect(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
			}
			if got := decodeError(t, rec); got != "Unauthorized" {
				t.Fatalf("expected error %q got %q", "Unauthorized", got)
			}
		})
	}
}

func TestAuthHandlerDisconnect(t *testing.T) {
	store := newInMemoryUserStore()
	addUser(t, store, "user-1", "login@example.com", "password123")

	sessions := newTestSessions()
	token, err := sessions.Create(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	handler := AuthHandler{Users: store, Sessions: sessions}

	req := httptest.NewRequest(http.MethodGet, "/disconnect", nil)
	req.Header.Set("X-Token", token)
	rec := httptest.NewRecorder()

	handler.Disconnect(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d got %d", http.StatusNoContent, rec.Code)
	}

	if _, err := sessions.Resolve(context.Background(), token); err == nil {
		t.Fatal("expected token to be revoked")
	}
}

func TestAuthHandlerDisconnectWithoutToken(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newTestSessions()}

	req := httptest.NewRequest(http.MethodGet, "/disconnect", nil)
	rec := httptest.NewRecorder()

	handler.Disconnect(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthHandlerConnectRateLimited(t *testing.T) {
	store := newInMemoryUserStore()
	addUser(t, store, "user-1", "login@example.com", "password123")

	handler := AuthHandler{Users: store, Sessions: newTestSessions(), Limiter: denyAllLimiter{}}

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.SetBasicAuth("login@example.com", "password123")
	rec := httptest.NewRecorder()

	handler.Connect(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d got %d", http.StatusTooManyRequests, rec.Code)
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }
