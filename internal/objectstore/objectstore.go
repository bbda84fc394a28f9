package objectstore

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is a durable object store for uploaded photos. Upload returns the
// storage key and a publicly fetchable URL for the object; overwriting an
// existing key is not permitted. Remove is used only for compensation and is
// best-effort: callers log failures, never escalate them.
type Store interface {
	Upload(ctx context.Context, fileName, mimeType string, r io.Reader) (key string, publicURL string, err error)
	Remove(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free storage key for an uploaded file. The
// random UUID makes collisions practically impossible without coordination.
func ObjectKey(fileName string) string {
	return "gifted-ai-" + uuid.NewString() + "-" + SanitizeFileName(fileName)
}

// SanitizeFileName strips any path components from a client-supplied file
// name so it is safe to embed in a storage key.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
