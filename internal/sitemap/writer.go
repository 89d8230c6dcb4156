package sitemap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"heartwellness/fitness-cms/internal/storage"
)

// Target is a place the sitemap is published to. Read returns nil data when nothing has been
// published yet.
type Target interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// FileTarget writes the sitemap to a local path.
type FileTarget struct {
	Path string
}

func (t FileTarget) Name() string { return "file:" + t.Path }

func (t FileTarget) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(t.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Write replaces the file atomically through a temp file in the same directory.
func (t FileTarget) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(t.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".sitemap-*.xml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), t.Path)
}

// ObjectTarget publishes the sitemap as an object in file storage.
type ObjectTarget struct {
	Storage storage.FileStorage
	Key     string
}

func (t ObjectTarget) Name() string { return "object:" + t.Key }

func (t ObjectTarget) Read(ctx context.Context) ([]byte, error) {
	data, err := t.Storage.GetObject(ctx, t.Key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.Key, err)
	}
	return data, nil
}

func (t ObjectTarget) Write(ctx context.Context, data []byte) error {
	return t.Storage.PutObject(ctx, t.Key, "application/xml", data)
}
