package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// User represents a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// FileKind enumerates the node types stored in the file tree.
type FileKind string

const (
	KindFolder FileKind = "folder"
	KindFile   FileKind = "file"
	KindImage  FileKind = "image"
)

// ParseFileKind validates a raw type string coming from a request body.
func ParseFileKind(raw string) (FileKind, bool) {
	switch FileKind(raw) {
	case KindFolder, KindFile, KindImage:
		return FileKind(raw), true
	}
	return "", false
}

// ParentID identifies a node's containing folder. The zero value is the root
// marker: the implicit top level that is not itself a node. The root marker
// can never collide with a generated node id.
type ParentID struct {
	id string
}

// NodeParent wraps a real folder id as a parent reference.
func NodeParent(id string) ParentID {
	return ParentID{id: id}
}

// Root is the parent reference for top-level nodes.
func Root() ParentID {
	return ParentID{}
}

// IsRoot reports whether the reference is the root marker.
func (p ParentID) IsRoot() bool {
	return p.id == ""
}

// Node returns the wrapped folder id, and false for the root marker.
func (p ParentID) Node() (string, bool) {
	return p.id, p.id != ""
}

// String renders the reference the way the HTTP surface expects: the root
// marker is "0", everything else is the folder id.
func (p ParentID) String() string {
	if p.id == "" {
		return "0"
	}
	return p.id
}

// MarshalJSON renders the root marker as "0" to match the public contract.
func (p ParentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts an id string, "0", "" or the literal number 0 for root.
func (p *ParentID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*p = ParentID{}
	case string:
		if v == "" || v == "0" {
			*p = ParentID{}
		} else {
			*p = ParentID{id: v}
		}
	case float64:
		if v != 0 {
			return fmt.Errorf("parent id must be an id string or 0, got %v", v)
		}
		*p = ParentID{}
	default:
		return fmt.Errorf("parent id must be an id string or 0")
	}
	return nil
}

// FileNode is a single entry in a user's file tree. BlobRef is set exactly
// when Kind is not a folder; it locates the stored content and is never
// exposed through the HTTP surface.
type FileNode struct {
	ID        string
	OwnerID   string
	ParentID  ParentID
	Name      string
	Kind      FileKind
	IsPublic  bool
	BlobRef   string
	CreatedAt time.Time
}

// ThumbnailJob is the message consumed by the thumbnail worker. It is an
// ephemeral payload, not persisted metadata.
type ThumbnailJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// ThumbnailWidths are the derivative sizes produced for every stored image.
var ThumbnailWidths = []int{500, 250, 100}

// ThumbnailSuffix is the blob suffix convention for a derivative width.
func ThumbnailSuffix(width int) string {
	return fmt.Sprintf("_%d", width)
}
