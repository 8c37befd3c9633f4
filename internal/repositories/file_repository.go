package repositories

import (
	"context"

	"github.com/filecove/backend/internal/models"
)

// FileRepository defines the data access contract for file tree nodes.
// Every owner-scoped method takes the owner id as a mandatory filter, not an
// advisory one: cross-owner reads and writes are impossible at this layer.
type FileRepository interface {
	Create(ctx context.Context, node models.FileNode) error

	// FindOwned returns a node only when it belongs to the given owner.
	FindOwned(ctx context.Context, ownerID, id string) (models.FileNode, error)

	// FindAny returns a node regardless of owner. Used by the public read
	// path, which applies its own visibility check.
	FindAny(ctx context.Context, id string) (models.FileNode, error)

	// SetVisibility flips the public flag on an owned node and returns the
	// updated record.
	SetVisibility(ctx context.Context, ownerID, id string, isPublic bool) (models.FileNode, error)

	// ListByParent returns owned nodes under the given parent in insertion
	// order. A parent id that no longer exists simply matches nothing.
	ListByParent(ctx context.Context, ownerID string, parent models.ParentID, limit, offset int) ([]models.FileNode, error)

	Count(ctx context.Context) (int64, error)
}
