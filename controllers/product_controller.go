package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/models"
	"github.com/uniquestorebd/unique-store-api/services"
)

// ProductController handles the product catalog endpoints.
type ProductController struct {
	db     *gorm.DB
	images services.ImageService
}

func NewProductController(db *gorm.DB, images services.ImageService) *ProductController {
	return &ProductController{db: db, images: images}
}

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	Name           string                `json:"name" binding:"required"`
	Description    string                `json:"description" binding:"required"`
	Price          float64               `json:"price" binding:"required,gt=0"`
	MPrice         *float64              `json:"mprice"`
	Stock          int                   `json:"stock" binding:"gte=0"`
	Category       string                `json:"category" binding:"required"`
	Brand          string                `json:"brand"`
	Video          string                `json:"video"`
	Images         []models.ProductImage `json:"images" binding:"required,min=1"`
	Tags           []string              `json:"tags"`
	Specifications map[string]string     `json:"specifications"`
	Featured       bool                  `json:"featured"`
	Rating         float64               `json:"rating" binding:"gte=0,lte=5"`
}

// ListProducts returns all products, newest first.
func (pc *ProductController) ListProducts(c *gin.Context) {
	var products []models.Product
	if err := pc.db.Order("created_at DESC").Find(&products).Error; err != nil {
		log.Printf("Error fetching products: %v", err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct returns a single product by its numeric ID.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Product ID must be a number")
		return
	}

	var product models.Product
	if err := pc.db.First(&product, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		log.Printf("Error fetching product %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// GetProductBySlug returns a single product by its URL slug.
func (pc *ProductController) GetProductBySlug(c *gin.Context) {
	var product models.Product
	if err := pc.db.Where("slug = ?", c.Param("slug")).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		log.Printf("Error fetching product by slug %q: %v", c.Param("slug"), err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CreateProduct adds a new product to the catalog. Admin only.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product := models.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		MPrice:         req.MPrice,
		Stock:          req.Stock,
		Category:       req.Category,
		Brand:          req.Brand,
		Video:          req.Video,
		Images:         req.Images,
		Tags:           req.Tags,
		Specifications: req.Specifications,
		Featured:       req.Featured,
		Rating:         req.Rating,
	}

	if err := pc.db.Create(&product).Error; err != nil {
		if isDuplicateError(err) {
			errorJSON(c, http.StatusConflict, "DUPLICATE_SLUG", "A product with this name already exists")
			return
		}
		log.Printf("Error creating product: %v", err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct replaces the mutable fields of an existing product. Admin only.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Product ID must be a number")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var product models.Product
	if err := pc.db.First(&product, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		log.Printf("Error fetching product %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch product")
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.MPrice = req.MPrice
	product.Stock = req.Stock
	product.Category = req.Category
	product.Brand = req.Brand
	product.Video = req.Video
	product.Images = req.Images
	product.Tags = req.Tags
	product.Specifications = req.Specifications
	product.Featured = req.Featured
	product.Rating = req.Rating

	if err := pc.db.Save(&product).Error; err != nil {
		if isDuplicateError(err) {
			errorJSON(c, http.StatusConflict, "DUPLICATE_SLUG", "A product with this name already exists")
			return
		}
		log.Printf("Error updating product %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct soft-deletes a product and cleans up its stored images. Admin only.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Product ID must be a number")
		return
	}

	var product models.Product
	if err := pc.db.First(&product, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		log.Printf("Error fetching product %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch product")
		return
	}

	if err := pc.db.Delete(&product).Error; err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product")
		return
	}

	// Image cleanup is best effort. The product is already gone.
	for _, img := range product.Images {
		if img.FileID == "" {
			continue
		}
		if err := pc.images.DeleteImage(c.Request.Context(), img.FileID); err != nil {
			log.Printf("Warning: failed to delete image %s for product %d: %v", img.FileID, id, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Product deleted successfully"},
	})
}

func isDuplicateError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
