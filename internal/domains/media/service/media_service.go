package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"cms-backend/internal/infrastructure/storage"
)

// MaxUploadSize caps uploads at 5 MB.
const MaxUploadSize = 5 << 20

var (
	// ErrFileTooLarge means the upload exceeds MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large (max 5MB)")

	// ErrUnsupportedType means the file is not an allowed image type.
	ErrUnsupportedType = errors.New("only image files (jpeg, png, gif, webp) are allowed")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService validates image uploads and stores them under random
// object names.
type MediaService struct {
	storage *storage.MinIOStorage
}

func NewMediaService(storage *storage.MinIOStorage) *MediaService {
	return &MediaService{storage: storage}
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Upload checks size and content type, then stores the file.
func (s *MediaService) Upload(ctx context.Context, data []byte, contentType, originalName string) (*UploadResult, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if origExt := strings.ToLower(filepath.Ext(originalName)); origExt != "" {
		for _, allowed := range allowedTypes {
			if origExt == allowed || (origExt == ".jpeg" && allowed == ".jpg") {
				ext = allowed
			}
		}
	}

	filename := uuid.NewString() + ext
	url, err := s.storage.Upload(ctx, filename, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &UploadResult{URL: url, Filename: filename}, nil
}
