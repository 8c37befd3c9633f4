package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/filecove/backend/internal/auth"
	"github.com/filecove/backend/internal/logging"
	"github.com/filecove/backend/internal/models"
)

// fileView is the wire representation of a file node. The blob reference is
// deliberately absent: content location is not part of the listing contract.
type fileView struct {
	ID       string          `json:"id"`
	UserID   string          `json:"userId"`
	Name     string          `json:"name"`
	Type     models.FileKind `json:"type"`
	IsPublic bool            `json:"isPublic"`
	ParentID models.ParentID `json:"parentId"`
}

func newFileView(node models.FileNode) fileView {
	return fileView{
		ID:       node.ID,
		UserID:   node.OwnerID,
		Name:     node.Name,
		Type:     node.Kind,
		IsPublic: node.IsPublic,
		ParentID: node.ParentID,
	}
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, map[string]string{"error": message})
}

// requireUser resolves the X-Token header to a full user record. A missing,
// unknown, or expired token comes back as not-ok, which handlers must render
// as 401. An unreachable session cache is treated the same way.
func requireUser(r *http.Request, sessions SessionManager, users UserStore) (models.User, bool) {
	userID, ok := resolveToken(r, sessions)
	if !ok {
		return models.User{}, false
	}

	user, err := users.FindByID(r.Context(), userID)
	if err != nil {
		return models.User{}, false
	}
	return user, true
}

// resolveToken maps the X-Token header to a user id without touching the
// user collection.
func resolveToken(r *http.Request, sessions SessionManager) (string, bool) {
	token := r.Header.Get("X-Token")
	if token == "" {
		return "", false
	}

	userID, err := sessions.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			logging.FromContext(r.Context()).Error("session cache unreachable, treating as unauthenticated", "error", err)
		}
		return "", false
	}
	return userID, true
}
