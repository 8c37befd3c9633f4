package app

import (
	"time"

	"github.com/filecove/backend/internal/auth"
	"github.com/filecove/backend/internal/db"
	"github.com/filecove/backend/internal/files"
	"github.com/filecove/backend/internal/handlers"
	"github.com/filecove/backend/internal/jobs"
	"github.com/filecove/backend/internal/middleware"
	"github.com/filecove/backend/internal/models"
	"github.com/filecove/backend/internal/repositories"
)

// Login attempts allowed per IP before /connect starts returning 429.
const (
	loginRateRequests = 10
	loginRateWindow   = time.Minute
	loginRateBurst    = 5
	loginLimiterTTL   = 10 * time.Minute
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, sessions *auth.Sessions, fileService *files.Service, queue *jobs.Queue[models.ThumbnailJob]) handlers.Dependencies {
	fileRepo := repositories.NewPostgresFileRepository(pool)

	return handlers.Dependencies{
		Users:        repositories.NewPostgresUserRepository(pool),
		Sessions:     sessions,
		Files:        fileService,
		Thumbs:       queue,
		FileCounts:   fileRepo,
		DB:           pool,
		LoginLimiter: middleware.NewIPRateLimiter(loginRateRequests, loginRateWindow, loginRateBurst, loginLimiterTTL),
	}
}
