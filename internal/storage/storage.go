package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectInfo describes a stored object. The JSON keys match the shape
// persisted inside expense records.
type ObjectInfo struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Name string `json:"nome"`
	Size *int64 `json:"size"`
}

// Store is the object-storage contract used by the expense and project
// services for receipt images.
type Store interface {
	// Upload writes data at path with no-overwrite semantics.
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (*ObjectInfo, error)
	// Remove deletes the given paths, skipping missing objects. A non-nil
	// error aggregates per-path failures; callers decide whether that is
	// fatal.
	Remove(ctx context.Context, paths []string) error
	PublicURL(objectPath string) string
	SignedURL(objectPath string, ttl time.Duration) (string, error)
}

var (
	ErrObjectExists   = errors.New("object already exists")
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidPath    = errors.New("invalid object path")
)

// ObjectPath builds a per-user namespaced path for a new object.
func ObjectPath(userID int64, ext string) string {
	if ext == "" {
		ext = ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%d/%s%s", userID, uuid.NewString(), ext)
}

// ValidatePath rejects traversal and absolute paths before they reach the
// filesystem.
func ValidatePath(objectPath string) error {
	if objectPath == "" {
		return ErrInvalidPath
	}
	if strings.HasPrefix(objectPath, "/") || strings.Contains(objectPath, "..") {
		return ErrInvalidPath
	}
	if cleaned := path.Clean(objectPath); cleaned != objectPath {
		return ErrInvalidPath
	}
	return nil
}

// OwnsPath reports whether the object path lives in the user's namespace.
func OwnsPath(userID int64, objectPath string) bool {
	return strings.HasPrefix(objectPath, fmt.Sprintf("%d/", userID))
}
