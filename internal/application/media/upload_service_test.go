package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockObjectStorageService is a mock implementation of ObjectStorageService
type MockObjectStorageService struct {
	mock.Mock
}

func (m *MockObjectStorageService) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorageService) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

var _ ObjectStorageService = (*MockObjectStorageService)(nil)

func newTestUploadService() (*UploadService, *MockObjectStorageService) {
	storage := new(MockObjectStorageService)
	svc := NewUploadService(storage, UploadServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
		MaxUploadSize:   5 << 20,
		PublicBaseURL:   "https://cdn.rethread.example",
	})
	return svc, storage
}

func TestUploadService_RequestUpload(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("issues presigned URL for a valid image", func(t *testing.T) {
		svc, storage := newTestUploadService()
		expiresAt := time.Now().Add(15 * time.Minute)
		storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/jpeg", 15*time.Minute).
			Return("https://s3.example/presigned", expiresAt, nil)

		resp, err := svc.RequestUpload(ctx, userID, RequestUploadInput{
			FileName:    "scraps.JPG",
			ContentType: "image/jpeg",
			SizeBytes:   1024,
		})

		require.NoError(t, err)
		assert.Equal(t, "https://s3.example/presigned", resp.UploadURL)
		assert.True(t, strings.HasPrefix(resp.StorageKey, "images/"+userID.String()+"/"))
		assert.True(t, strings.HasSuffix(resp.StorageKey, ".jpg"))
		assert.Equal(t, "https://cdn.rethread.example/"+resp.StorageKey, resp.PublicURL)
		storage.AssertExpectations(t)
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		svc, _ := newTestUploadService()

		_, err := svc.RequestUpload(ctx, userID, RequestUploadInput{
			FileName:    "sketch.svg",
			ContentType: "image/svg+xml",
			SizeBytes:   1024,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		svc, _ := newTestUploadService()

		_, err := svc.RequestUpload(ctx, userID, RequestUploadInput{
			FileName:    "huge.png",
			ContentType: "image/png",
			SizeBytes:   (5 << 20) + 1,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "maximum upload size")
	})

	t.Run("rejects zero size", func(t *testing.T) {
		svc, _ := newTestUploadService()

		_, err := svc.RequestUpload(ctx, userID, RequestUploadInput{
			FileName:    "empty.png",
			ContentType: "image/png",
			SizeBytes:   0,
		})

		assert.Error(t, err)
	})
}

func TestUploadService_ConfirmUpload(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	key := "images/" + userID.String() + "/abc.jpg"

	t.Run("returns public URL when object exists", func(t *testing.T) {
		svc, storage := newTestUploadService()
		storage.On("ObjectExists", ctx, key).Return(true, nil)

		url, err := svc.ConfirmUpload(ctx, userID, key)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.rethread.example/"+key, url)
	})

	t.Run("fails when object missing", func(t *testing.T) {
		svc, storage := newTestUploadService()
		storage.On("ObjectExists", ctx, key).Return(false, nil)

		_, err := svc.ConfirmUpload(ctx, userID, key)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found in storage")
	})

	t.Run("refuses keys outside the user prefix", func(t *testing.T) {
		svc, _ := newTestUploadService()

		_, err := svc.ConfirmUpload(ctx, userID, "images/"+uuid.New().String()+"/other.jpg")

		assert.Equal(t, shared.ErrForbidden, err)
	})
}

func TestUploadService_DeleteImage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("deletes own object", func(t *testing.T) {
		svc, storage := newTestUploadService()
		key := "images/" + userID.String() + "/abc.jpg"
		storage.On("DeleteObject", ctx, key).Return(nil)

		require.NoError(t, svc.DeleteImage(ctx, userID, key))
		storage.AssertExpectations(t)
	})

	t.Run("refuses another user's object", func(t *testing.T) {
		svc, storage := newTestUploadService()

		err := svc.DeleteImage(ctx, userID, "images/"+uuid.New().String()+"/abc.jpg")

		assert.Equal(t, shared.ErrForbidden, err)
		storage.AssertNotCalled(t, "DeleteObject")
	})
}
