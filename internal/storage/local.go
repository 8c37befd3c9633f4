package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalBlobStore writes blobs to a directory on the local filesystem. Each
// write gets a unique generated name, so concurrent writers never collide and
// no locking is needed.
type LocalBlobStore struct {
	root string
}

// NewLocalBlobStore constructs a store rooted at the provided directory. The
// directory is created lazily on first write.
func NewLocalBlobStore(root string) (*LocalBlobStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("local blob store: root path is required")
	}
	return &LocalBlobStore{root: root}, nil
}

// Put writes content under a generated name and returns its absolute path as
// the blob reference. The content lands under a temporary name first and is
// renamed into place, so a failed write never leaves a readable partial blob.
func (s *LocalBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("ensure blob root: %w", err)
	}

	ref := filepath.Join(s.root, uuid.NewString())
	if err := s.writeAtomic(ref, data); err != nil {
		return "", err
	}
	return ref, nil
}

// PutVariant writes a derivative next to the original.
func (s *LocalBlobStore) PutVariant(ctx context.Context, ref, suffix string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("ensure blob root: %w", err)
	}
	return s.writeAtomic(ref+suffix, data)
}

// Get reads the content for a reference.
func (s *LocalBlobStore) Get(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob %s: %w", ref, err)
	}
	return data, nil
}

// GetVariant reads a derivative of the original reference.
func (s *LocalBlobStore) GetVariant(ctx context.Context, ref, suffix string) ([]byte, error) {
	return s.Get(ctx, ref+suffix)
}

func (s *LocalBlobStore) writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(s.root, ".blob-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close blob: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit blob %s: %w", dest, err)
	}
	return nil
}

var _ BlobStore = (*LocalBlobStore)(nil)
