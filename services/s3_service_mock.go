package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MockS3Service is a mock implementation of S3Interface for testing
type MockS3Service struct {
	uploadedFiles map[string][]byte // object key -> content
	mu            sync.RWMutex
	counter       int
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		uploadedFiles: make(map[string][]byte),
	}
}

// UploadFile simulates uploading a file to S3
func (m *MockS3Service) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	key := fmt.Sprintf("products/mock-%d%s", m.counter, strings.ToLower(filepath.Ext(fileHeader.Filename)))
	m.uploadedFiles[key] = content
	return key, nil
}

// PresignUpload simulates issuing a presigned PUT URL
func (m *MockS3Service) PresignUpload(ctx context.Context, filename string, ttl time.Duration) (string, string, error) {
	m.mu.Lock()
	m.counter++
	key := fmt.Sprintf("products/mock-%d%s", m.counter, strings.ToLower(filepath.Ext(filename)))
	m.mu.Unlock()
	url := fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?X-Amz-Signature=mock", key)
	return url, key, nil
}

// ObjectURL returns a mock public URL for a key
func (m *MockS3Service) ObjectURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s", key)
}

// DeleteFile simulates deleting an object
func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.uploadedFiles, key)
	m.mu.Unlock()
	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockS3Service) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedFiles[key]
	return exists
}

// UploadedFiles returns a copy of the stored objects (for test assertions)
func (m *MockS3Service) UploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	files := make(map[string][]byte, len(m.uploadedFiles))
	for k, v := range m.uploadedFiles {
		files[k] = v
	}
	return files
}
