package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrObjectNotFound is returned by GetObject when the key does not exist.
var ErrObjectNotFound = errors.New("object not found in storage")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// PutObject stores body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GetObject reads the whole object.
	GetObject(ctx context.Context, objectKey string) ([]byte, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error

	// PublicURL returns the URL under which objectKey is served publicly.
	PublicURL(objectKey string) string
}

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageObjectKey builds a collision-free key like "exercises/<uuid>.png" for an uploaded file name.
// It returns false when the extension is not an accepted image type.
func ImageObjectKey(prefix, fileName string) (key, contentType string, ok bool) {
	ext := strings.ToLower(path.Ext(fileName))
	contentType, ok = allowedImageExt[ext]
	if !ok {
		return "", "", false
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}
	return prefix + "/" + uuid.NewString() + ext, contentType, true
}

// joinURL appends objectKey to base with exactly one slash between them.
func joinURL(base, objectKey string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(objectKey, "/")
}
