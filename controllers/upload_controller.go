package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniquestorebd/unique-store-api/services"
	"github.com/uniquestorebd/unique-store-api/utils"
)

// UploadController handles server-side product image uploads.
type UploadController struct {
	images services.ImageService
}

func NewUploadController(images services.ImageService) *UploadController {
	return &UploadController{images: images}
}

// UploadImage validates and stores a multipart image file. Admin only.
func (uc *UploadController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required")
		return
	}

	image, err := uc.images.UploadProductImage(c.Request.Context(), fileHeader)
	if err != nil {
		var uerr *utils.FileUploadError
		if errors.As(err, &uerr) {
			errorJSON(c, http.StatusBadRequest, uerr.Code, uerr.Message)
			return
		}
		log.Printf("Error uploading image: %v", err)
		errorJSON(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to upload image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    image,
	})
}
