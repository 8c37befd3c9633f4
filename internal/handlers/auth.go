package handlers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/filecove/backend/internal/auth"
	"github.com/filecove/backend/internal/logging"
	"github.com/filecove/backend/internal/repositories"
)

// RateLimiter is the minimal interface required to guard the login endpoint.
type RateLimiter interface {
	Allow(key string) bool
}

// AuthHandler implements token issuance and revocation.
type AuthHandler struct {
	Users    UserStore
	Sessions SessionManager
	Limiter  RateLimiter
}

// Connect handles GET /connect: it exchanges Basic credentials for a token.
func (h AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "connect") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	email, password, ok := r.BasicAuth()
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	email = strings.TrimSpace(strings.ToLower(email))

	user, err := h.Users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logger.Error("login user lookup failed", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "authentication services unavailable")
			return
		}
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := h.Sessions.Create(ctx, user.ID)
	if err != nil {
		// An unreachable cache is a hard failure for issuance, unlike resolve.
		logger.Error("failed to create session", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"token": token})
}

// Disconnect handles GET /disconnect: it revokes the presented token.
func (h AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.Header.Get("X-Token")
	if _, ok := resolveToken(r, h.Sessions); !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			logging.FromContext(ctx).Error("failed to revoke session", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "failed to revoke session")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}
	return limiter.Allow(rateLimitKey(r, scope))
}

func rateLimitKey(r *http.Request, scope string) string {
	ip := clientIP(r)
	if scope == "" {
		return ip
	}
	return fmt.Sprintf("%s:%s", scope, ip)
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
