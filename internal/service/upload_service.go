package service

import (
	"context"
	"errors"
	"fmt"

	"heartwellness/fitness-cms/internal/storage"
)

// --- Error Definitions ---
var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrUploadURLError       = errors.New("failed to generate upload URL")
	ErrStorageDisabled      = errors.New("file storage is not configured")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL   string `json:"uploadUrl"`
	ObjectKey   string `json:"objectKey"` // Stored on the exercise as its image
	ContentType string `json:"contentType"`
	PublicURL   string `json:"publicUrl"`
}

type UploadService interface {
	// RequestImageUploadURLs presigns one PUT URL per file name under prefix.
	RequestImageUploadURLs(ctx context.Context, prefix string, fileNames []string) ([]UploadURLResponse, error)
}

type uploadService struct {
	fileStorage storage.FileStorage
}

// NewUploadService accepts a nil storage; requests then fail with ErrStorageDisabled.
func NewUploadService(fileStorage storage.FileStorage) UploadService {
	return &uploadService{fileStorage: fileStorage}
}

func (s *uploadService) RequestImageUploadURLs(ctx context.Context, prefix string, fileNames []string) ([]UploadURLResponse, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	if len(fileNames) == 0 {
		return nil, ErrValidationFailed
	}

	out := make([]UploadURLResponse, 0, len(fileNames))
	for _, name := range fileNames {
		key, contentType, ok := storage.ImageObjectKey(prefix, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageType, name)
		}
		uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadURLError, err)
		}
		out = append(out, UploadURLResponse{
			UploadURL:   uploadURL,
			ObjectKey:   key,
			ContentType: contentType,
			PublicURL:   s.fileStorage.PublicURL(key),
		})
	}
	return out, nil
}
