// Package media handles image uploads for listings and gallery posts.
package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/shared"
)

// AllowedImageContentTypes is the whitelist of image content types
// accepted for upload. SVG is excluded because it can embed script.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or compatible).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file.
	// Returns the upload URL and expiration time.
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage.
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage.
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// UploadServiceConfig holds configuration for the upload service
type UploadServiceConfig struct {
	// UploadURLExpiry is the duration for which upload URLs are valid
	UploadURLExpiry time.Duration
	// MaxUploadSize is the maximum accepted file size in bytes
	MaxUploadSize int64
	// PublicBaseURL is the base URL uploaded images are served from
	PublicBaseURL string
}

// DefaultUploadServiceConfig returns the default configuration
func DefaultUploadServiceConfig() UploadServiceConfig {
	return UploadServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
		MaxUploadSize:   5 << 20,
	}
}

// RequestUploadInput describes a file a user wants to upload
type RequestUploadInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
}

// RequestUploadResponse carries the presigned URL the client uploads to
// and the public URL the image will be served from once uploaded.
type RequestUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
	PublicURL  string    `json:"public_url"`
}

// UploadService issues presigned upload URLs and verifies completed uploads
type UploadService struct {
	storage ObjectStorageService
	config  UploadServiceConfig
}

// NewUploadService creates a new UploadService
func NewUploadService(storage ObjectStorageService, config UploadServiceConfig) *UploadService {
	if config.UploadURLExpiry <= 0 {
		config.UploadURLExpiry = DefaultUploadServiceConfig().UploadURLExpiry
	}
	if config.MaxUploadSize <= 0 {
		config.MaxUploadSize = DefaultUploadServiceConfig().MaxUploadSize
	}
	return &UploadService{storage: storage, config: config}
}

// RequestUpload validates the file metadata and returns a presigned upload URL
func (s *UploadService) RequestUpload(ctx context.Context, userID uuid.UUID, input RequestUploadInput) (*RequestUploadResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if !isAllowedImageContentType(input.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: JPEG, PNG, GIF, and WebP images.", input.ContentType))
	}
	if input.SizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be positive")
	}
	if input.SizeBytes > s.config.MaxUploadSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the maximum upload size of %d bytes", s.config.MaxUploadSize))
	}

	storageKey := s.generateStorageKey(userID, input.FileName)

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, input.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &RequestUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
		PublicURL:  s.PublicURL(storageKey),
	}, nil
}

// ConfirmUpload verifies the object was actually uploaded and returns
// the public URL to store on the listing or gallery post.
func (s *UploadService) ConfirmUpload(ctx context.Context, userID uuid.UUID, storageKey string) (string, error) {
	if !s.ownsKey(userID, storageKey) {
		return "", shared.ErrForbidden
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return "", shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return "", shared.NewDomainError("UPLOAD_NOT_FOUND",
			"File not found in storage. Please upload the file first.")
	}

	return s.PublicURL(storageKey), nil
}

// DeleteImage removes an uploaded object. Users can only delete objects
// under their own key prefix.
func (s *UploadService) DeleteImage(ctx context.Context, userID uuid.UUID, storageKey string) error {
	if !s.ownsKey(userID, storageKey) {
		return shared.ErrForbidden
	}
	return s.storage.DeleteObject(ctx, storageKey)
}

// PublicURL returns the public URL an object is served from
func (s *UploadService) PublicURL(storageKey string) string {
	base := strings.TrimRight(s.config.PublicBaseURL, "/")
	return base + "/" + storageKey
}

// generateStorageKey generates a unique storage key for a file.
// Format: images/{userID}/{uniqueID}{ext}
func (s *UploadService) generateStorageKey(userID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("images/%s/%s%s", userID.String(), uuid.New().String(), ext)
}

// ownsKey reports whether the storage key sits under the user's prefix
func (s *UploadService) ownsKey(userID uuid.UUID, storageKey string) bool {
	return strings.HasPrefix(storageKey, "images/"+userID.String()+"/")
}

func isAllowedImageContentType(contentType string) bool {
	return AllowedImageContentTypes[strings.ToLower(contentType)]
}
