package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/uniquestorebd/unique-store-api/models"
	"github.com/uniquestorebd/unique-store-api/utils"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	mu       sync.Mutex
	uploads  []string
	deleted  []string
	failWith error
}

// NewMockImageService creates a mock image service that succeeds by default
func NewMockImageService() *MockImageService {
	return &MockImageService{}
}

// UploadProductImage validates the file like the real service, then records
// the upload and returns a fake URL
func (m *MockImageService) UploadProductImage(ctx context.Context, fileHeader *multipart.FileHeader) (models.ProductImage, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return models.ProductImage{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.ProductImage{}, m.failWith
	}
	key := fmt.Sprintf("products/mock-%d.png", len(m.uploads)+1)
	m.uploads = append(m.uploads, fileHeader.Filename)
	return models.ProductImage{
		URL:    "https://test-bucket.s3.us-east-1.amazonaws.com/" + key,
		FileID: key,
	}, nil
}

// DeleteImage records the deletion
func (m *MockImageService) DeleteImage(ctx context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.deleted = append(m.deleted, fileID)
	return nil
}

// FailWith makes subsequent calls return err; pass nil to succeed again
func (m *MockImageService) FailWith(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// Uploads returns the recorded upload filenames
func (m *MockImageService) Uploads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.uploads))
	copy(out, m.uploads)
	return out
}

// Deleted returns the recorded deleted file IDs
func (m *MockImageService) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.deleted))
	copy(out, m.deleted)
	return out
}
