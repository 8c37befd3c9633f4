// Package files owns the file tree: folder/file/image metadata scoped to an
// owner, hierarchy validation, content round trips through the blob store,
// and paginated listing.
package files

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/filecove/backend/internal/models"
	"github.com/filecove/backend/internal/repositories"
	"github.com/filecove/backend/internal/storage"
)

var (
	// ErrMissingName indicates an empty node name.
	ErrMissingName = errors.New("missing name")
	// ErrInvalidKind indicates a type outside folder/file/image.
	ErrInvalidKind = errors.New("invalid kind")
	// ErrMissingContent indicates a non-folder node without content.
	ErrMissingContent = errors.New("missing content")
	// ErrParentNotFound indicates the requested parent does not exist for the owner.
	ErrParentNotFound = errors.New("parent not found")
	// ErrParentNotAFolder indicates the requested parent is not a folder.
	ErrParentNotAFolder = errors.New("parent is not a folder")
	// ErrNotFound indicates an unknown node, or a private node requested by a
	// non-owner. The two are deliberately indistinguishable.
	ErrNotFound = errors.New("file not found")
	// ErrNotAFile indicates a content operation on a folder.
	ErrNotAFile = errors.New("a folder doesn't have content")
)

// PageSize is the fixed listing window.
const PageSize = 20

// Service implements the file tree and its paginated lister.
type Service struct {
	repo  repositories.FileRepository
	blobs storage.BlobStore
	now   func() time.Time
}

// NewService constructs the file tree service.
func NewService(repo repositories.FileRepository, blobs storage.BlobStore) *Service {
	return &Service{
		repo:  repo,
		blobs: blobs,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithNowFunc allows tests to override the time source.
func (s *Service) WithNowFunc(now func() time.Time) {
	s.now = now
}

// CreateFolder persists a new folder node under the given parent.
func (s *Service) CreateFolder(ctx context.Context, ownerID, name string, parent models.ParentID) (models.FileNode, error) {
	if name == "" {
		return models.FileNode{}, ErrMissingName
	}
	if err := s.checkParent(ctx, ownerID, parent); err != nil {
		return models.FileNode{}, err
	}

	node := models.FileNode{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		ParentID:  parent,
		Name:      name,
		Kind:      models.KindFolder,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, node); err != nil {
		return models.FileNode{}, fmt.Errorf("persist folder: %w", err)
	}
	return node, nil
}

// CreateFile stores the content through the blob store and persists the node.
// Metadata is written only after the content write succeeded, so no node ever
// references a blob that is not fully on disk. Enqueueing thumbnail work for
// images is the caller's responsibility; creation never blocks on it.
func (s *Service) CreateFile(ctx context.Context, ownerID, name string, kind models.FileKind, content []byte, isPublic bool, parent models.ParentID) (models.FileNode, error) {
	if name == "" {
		return models.FileNode{}, ErrMissingName
	}
	if kind == models.KindFolder {
		return models.FileNode{}, ErrInvalidKind
	}
	if _, ok := models.ParseFileKind(string(kind)); !ok {
		return models.FileNode{}, ErrInvalidKind
	}
	if len(content) == 0 {
		return models.FileNode{}, ErrMissingContent
	}
	if err := s.checkParent(ctx, ownerID, parent); err != nil {
		return models.FileNode{}, err
	}

	ref, err := s.blobs.Put(ctx, content)
	if err != nil {
		return models.FileNode{}, fmt.Errorf("store content: %w", err)
	}

	node := models.FileNode{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		ParentID:  parent,
		Name:      name,
		Kind:      kind,
		IsPublic:  isPublic,
		BlobRef:   ref,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, node); err != nil {
		return models.FileNode{}, fmt.Errorf("persist file: %w", err)
	}
	return node, nil
}

// Get returns a node owned by the requester.
func (s *Service) Get(ctx context.Context, ownerID, id string) (models.FileNode, error) {
	node, err := s.repo.FindOwned(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.FileNode{}, ErrNotFound
		}
		return models.FileNode{}, err
	}
	return node, nil
}

// GetPublicOrOwned returns a node that is either public or owned by the
// requester (requesterID may be empty for anonymous access). Everything else,
// including existing-but-private, resolves to ErrNotFound so that private
// files reveal nothing to non-owners.
func (s *Service) GetPublicOrOwned(ctx context.Context, requesterID, id string) (models.FileNode, error) {
	node, err := s.repo.FindAny(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.FileNode{}, ErrNotFound
		}
		return models.FileNode{}, err
	}
	if !node.IsPublic && (requesterID == "" || requesterID != node.OwnerID) {
		return models.FileNode{}, ErrNotFound
	}
	return node, nil
}

// SetVisibility flips the public flag on an owned node.
func (s *Service) SetVisibility(ctx context.Context, ownerID, id string, isPublic bool) (models.FileNode, error) {
	node, err := s.repo.SetVisibility(ctx, ownerID, id, isPublic)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.FileNode{}, ErrNotFound
		}
		return models.FileNode{}, err
	}
	return node, nil
}

// ReadContent returns the raw bytes for a node, or a thumbnail derivative
// when size names one of the generated widths. A derivative that has not been
// produced yet reads as ErrNotFound; callers treat that as "not yet ready".
func (s *Service) ReadContent(ctx context.Context, node models.FileNode, size string) ([]byte, error) {
	if node.Kind == models.KindFolder {
		return nil, ErrNotAFile
	}

	if size == "" {
		data, err := s.blobs.Get(ctx, node.BlobRef)
		if err != nil {
			if errors.Is(err, storage.ErrBlobNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return data, nil
	}

	width, ok := parseThumbnailWidth(size)
	if !ok {
		return nil, ErrNotFound
	}
	data, err := s.blobs.GetVariant(ctx, node.BlobRef, models.ThumbnailSuffix(width))
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// List returns one page of the owner's nodes under the given parent. The
// parent is not validated: listing under a vanished parent yields an empty
// page, never an error.
func (s *Service) List(ctx context.Context, ownerID string, parent models.ParentID, page int) ([]models.FileNode, error) {
	if page < 0 {
		page = 0
	}
	return s.repo.ListByParent(ctx, ownerID, parent, PageSize, page*PageSize)
}

func (s *Service) checkParent(ctx context.Context, ownerID string, parent models.ParentID) error {
	parentID, ok := parent.Node()
	if !ok {
		return nil
	}

	node, err := s.repo.FindOwned(ctx, ownerID, parentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrParentNotFound
		}
		return err
	}
	if node.Kind != models.KindFolder {
		return ErrParentNotAFolder
	}
	return nil
}

func parseThumbnailWidth(size string) (int, bool) {
	width, err := strconv.Atoi(size)
	if err != nil {
		return 0, false
	}
	for _, w := range models.ThumbnailWidths {
		if w == width {
			return width, true
		}
	}
	return 0, false
}
