package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/filecove/backend/internal/logging"
	"github.com/filecove/backend/internal/models"
	"github.com/filecove/backend/internal/repositories"
)

// UserHandler implements registration and the current-user endpoint.
type UserHandler struct {
	Users    UserStore
	Sessions SessionManager
	NowFunc  func() time.Time
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Create handles POST /users.
func (h UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "Missing email")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		respondError(ctx, w, http.StatusBadRequest, "Missing email")
		return
	}
	if req.Password == "" {
		respondError(ctx, w, http.StatusBadRequest, "Missing password")
		return
	}

	if _, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		respondError(ctx, w, http.StatusBadRequest, "Already exist")
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("registration lookup failed", "error", err, "email", req.Email)
		respondError(ctx, w, http.StatusInternalServerError, "unable to verify existing accounts")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		CreatedAt:    h.now(),
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusBadRequest, "Already exist")
			return
		}
		logger.Error("failed to create user", "error", err, "email", req.Email)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create account")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, userView{ID: user.ID, Email: user.Email})
}

// Me handles GET /users/me.
func (h UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := requireUser(r, h.Sessions, h.Users)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(ctx, w, http.StatusOK, userView{ID: user.ID, Email: user.Email})
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
