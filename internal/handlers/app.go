package handlers

import (
	"net/http"

	"github.com/filecove/backend/internal/logging"
)

// AppHandler exposes service health and counters.
type AppHandler struct {
	Sessions   SessionManager
	DB         DBPinger
	Users      UserStore
	FileCounts FileCounter
}

// Status handles GET /status.
func (h AppHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(ctx, w, http.StatusOK, map[string]bool{
		"redis": h.Sessions.Alive(ctx),
		"db":    h.DB.Ping(ctx) == nil,
	})
}

// Stats handles GET /stats.
func (h AppHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	users, err := h.Users.Count(ctx)
	if err != nil {
		logger.Error("count users failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to gather stats")
		return
	}

	files, err := h.FileCounts.Count(ctx)
	if err != nil {
		logger.Error("count files failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to gather stats")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
