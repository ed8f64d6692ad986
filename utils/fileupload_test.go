package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		expectError  bool
		expectedCode string
	}{
		{name: "Valid PNG", filename: "photo.png", size: 1024, expectError: false},
		{name: "Valid JPG", filename: "photo.jpg", size: 1024, expectError: false},
		{name: "Valid JPEG", filename: "photo.jpeg", size: 1024, expectError: false},
		{name: "Valid WebP", filename: "photo.webp", size: 1024, expectError: false},
		{name: "Uppercase extension", filename: "photo.PNG", size: 1024, expectError: false},
		{name: "GIF rejected", filename: "anim.gif", size: 1024, expectError: true, expectedCode: "INVALID_FILE_FORMAT"},
		{name: "No extension", filename: "photo", size: 1024, expectError: true, expectedCode: "INVALID_FILE_FORMAT"},
		{name: "Executable rejected", filename: "evil.exe", size: 1024, expectError: true, expectedCode: "INVALID_FILE_FORMAT"},
		{name: "Exactly at size limit", filename: "big.png", size: MaxFileSize, expectError: false},
		{name: "Over size limit", filename: "huge.png", size: MaxFileSize + 1, expectError: true, expectedCode: "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileHeader := &multipart.FileHeader{
				Filename: tt.filename,
				Size:     tt.size,
			}

			err := ValidateImageFile(fileHeader)
			if tt.expectError {
				assert.Error(t, err)
				var uploadErr *FileUploadError
				assert.ErrorAs(t, err, &uploadErr)
				assert.Equal(t, tt.expectedCode, uploadErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImageContentType(t *testing.T) {
	tests := []struct {
		ext      string
		expected string
	}{
		{".png", "image/png"},
		{".jpg", "image/jpeg"},
		{".jpeg", "image/jpeg"},
		{".webp", "image/webp"},
		{".PNG", "image/png"},
		{".gif", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ImageContentType(tt.ext), "extension %q", tt.ext)
	}
}
