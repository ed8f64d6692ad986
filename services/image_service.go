package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/uniquestorebd/unique-store-api/models"
	"github.com/uniquestorebd/unique-store-api/utils"
)

// ImageService handles product image upload and deletion against the
// backing object store
type ImageService interface {
	// UploadProductImage validates and stores an image, returning the
	// ProductImage record to embed on the product
	UploadProductImage(ctx context.Context, fileHeader *multipart.FileHeader) (models.ProductImage, error)

	// DeleteImage removes a stored image by its file ID
	DeleteImage(ctx context.Context, fileID string) error
}

// S3ImageService implements ImageService on top of S3
type S3ImageService struct {
	s3 S3Interface
}

// NewImageService creates an ImageService backed by the given object store
func NewImageService(s3 S3Interface) *S3ImageService {
	return &S3ImageService{s3: s3}
}

// UploadProductImage validates the file and uploads it, returning the
// public URL and storage key
func (s *S3ImageService) UploadProductImage(ctx context.Context, fileHeader *multipart.FileHeader) (models.ProductImage, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return models.ProductImage{}, err
	}

	key, err := s.s3.UploadFile(ctx, fileHeader)
	if err != nil {
		return models.ProductImage{}, fmt.Errorf("failed to upload image: %w", err)
	}

	return models.ProductImage{
		URL:    s.s3.ObjectURL(key),
		FileID: key,
	}, nil
}

// DeleteImage deletes an image from storage. An empty file ID is a no-op;
// images uploaded through third parties have no key to delete.
func (s *S3ImageService) DeleteImage(ctx context.Context, fileID string) error {
	if fileID == "" {
		return nil
	}
	if err := s.s3.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
