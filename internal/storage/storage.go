package storage

import (
	"context"
	"errors"
)

// ErrBlobNotFound indicates no content exists for the requested reference.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists raw file content under generated, collision-free names.
// References are opaque locators; derivatives live next to the original,
// addressed by appending a suffix to its reference.
type BlobStore interface {
	// Put writes content under a freshly generated name and returns its
	// reference. A failed write never leaves a readable partial blob.
	Put(ctx context.Context, data []byte) (string, error)

	// PutVariant writes a derivative addressed as ref+suffix.
	PutVariant(ctx context.Context, ref, suffix string, data []byte) error

	Get(ctx context.Context, ref string) ([]byte, error)
	GetVariant(ctx context.Context, ref, suffix string) ([]byte, error)
}
