// Package thumbs derives resized image variants for uploaded files. It runs
// behind the job queue, decoupled from the upload request path: the only
// thing it ever writes is derivative blobs, never file tree metadata.
package thumbs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/filecove/backend/internal/logging"
	"github.com/filecove/backend/internal/models"
	"github.com/filecove/backend/internal/repositories"
	"github.com/filecove/backend/internal/storage"
)

var (
	// ErrMissingFileID indicates a job without a file id.
	ErrMissingFileID = errors.New("missing fileId")
	// ErrMissingUserID indicates a job without a user id.
	ErrMissingUserID = errors.New("missing userId")
	// ErrFileNotFound indicates the job references no node owned by its user.
	ErrFileNotFound = errors.New("file not found")
)

// NodeFinder is the slice of the file repository the processor needs.
type NodeFinder interface {
	FindOwned(ctx context.Context, ownerID, id string) (models.FileNode, error)
}

// Processor generates the thumbnail variants for a single job.
type Processor struct {
	finder  NodeFinder
	blobs   storage.BlobStore
	logger  *slog.Logger
	timeout time.Duration
}

// NewProcessor constructs a thumbnail processor.
func NewProcessor(finder NodeFinder, blobs storage.BlobStore, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		finder:  finder,
		blobs:   blobs,
		logger:  logger,
		timeout: 2 * time.Minute,
	}
}

// Process handles one thumbnail job. It is idempotent: re-running a job for
// the same file overwrites the same derivative references, so at-least-once
// delivery never produces stray blobs.
func (p *Processor) Process(ctx context.Context, job models.ThumbnailJob) error {
	if job.FileID == "" {
		return ErrMissingFileID
	}
	if job.UserID == "" {
		return ErrMissingUserID
	}

	ctx, cancel := context.WithTimeout(logging.WithLogger(ctx, p.logger), p.timeout)
	defer cancel()

	ctx, span := logging.StartSpan(ctx, "thumbnail")
	defer span.End()

	logger := logging.FromContext(ctx).With("fileId", job.FileID, "userId", job.UserID)

	node, err := p.finder.FindOwned(ctx, job.UserID, job.FileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("look up file node: %w", err)
	}

	data, err := p.blobs.Get(ctx, node.BlobRef)
	if err != nil {
		return fmt.Errorf("read original blob: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	format, err := imaging.FormatFromFilename(node.Name)
	if err != nil {
		format = imaging.PNG
	}

	for _, width := range models.ThumbnailWidths {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, format); err != nil {
			return fmt.Errorf("encode %dpx variant: %w", width, err)
		}

		if err := p.blobs.PutVariant(ctx, node.BlobRef, models.ThumbnailSuffix(width), buf.Bytes()); err != nil {
			return fmt.Errorf("write %dpx variant: %w", width, err)
		}
	}

	logger.Info("thumbnails generated", "name", filepath.Base(node.Name), "widths", len(models.ThumbnailWidths))
	return nil
}
