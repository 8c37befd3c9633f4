package handlers

import (
	"context"

	"github.com/filecove/backend/internal/models"
)

// UserStore captures the persistence operations required by the user and
// auth handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Count(ctx context.Context) (int64, error)
}

// SessionManager issues and resolves the opaque bearer tokens carried in the
// X-Token header.
type SessionManager interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	Alive(ctx context.Context) bool
}

// FileService captures the file tree operations exposed over HTTP.
type FileService interface {
	CreateFolder(ctx context.Context, ownerID, name string, parent models.ParentID) (models.FileNode, error)
	CreateFile(ctx context.Context, ownerID, name string, kind models.FileKind, content []byte, isPublic bool, parent models.ParentID) (models.FileNode, error)
	Get(ctx context.Context, ownerID, id string) (models.FileNode, error)
	GetPublicOrOwned(ctx context.Context, requesterID, id string) (models.FileNode, error)
	SetVisibility(ctx context.Context, ownerID, id string, isPublic bool) (models.FileNode, error)
	ReadContent(ctx context.Context, node models.FileNode, size string) ([]byte, error)
	List(ctx context.Context, ownerID string, parent models.ParentID, page int) ([]models.FileNode, error)
}

// ThumbnailQueue schedules background thumbnail generation for stored images.
type ThumbnailQueue interface {
	Enqueue(ctx context.Context, job models.ThumbnailJob) error
}

// FileCounter reports the number of stored file nodes, for the stats endpoint.
type FileCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DBPinger checks connectivity to the document store.
type DBPinger interface {
	Ping(ctx context.Context) error
}
