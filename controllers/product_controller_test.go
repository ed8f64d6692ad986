package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/models"
	"github.com/uniquestorebd/unique-store-api/services"
)

func seedProduct(t *testing.T, db *gorm.DB, name string) models.Product {
	product := models.Product{
		Name:        name,
		Description: "A test product",
		Price:       10,
		Stock:       5,
		Category:    "gadgets",
		Images: []models.ProductImage{
			{URL: "https://cdn.example.com/a.png", FileID: "products/a.png"},
		},
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

func TestCreateProduct(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		expectedSlug   string
	}{
		{
			name: "Successfully create a product",
			requestBody: map[string]interface{}{
				"name":        "Wireless AirPods Pro",
				"description": "Noise cancelling earbuds",
				"price":       4500,
				"stock":       10,
				"category":    "audio",
				"images": []map[string]string{
					{"url": "https://cdn.example.com/airpods.png", "fileId": "products/airpods.png"},
				},
				"tags":           []string{"audio", "apple"},
				"specifications": map[string]string{"battery": "24h"},
			},
			expectedStatus: http.StatusCreated,
			expectedSlug:   "wireless-airpods-pro",
		},
		{
			name: "Fail with missing name",
			requestBody: map[string]interface{}{
				"description": "Noise cancelling earbuds",
				"price":       4500,
				"category":    "audio",
				"images": []map[string]string{
					{"url": "https://cdn.example.com/airpods.png"},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with no images",
			requestBody: map[string]interface{}{
				"name":        "Wireless AirPods Pro",
				"description": "Noise cancelling earbuds",
				"price":       4500,
				"category":    "audio",
				"images":      []map[string]string{},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with zero price",
			requestBody: map[string]interface{}{
				"name":        "Wireless AirPods Pro",
				"description": "Noise cancelling earbuds",
				"price":       0,
				"category":    "audio",
				"images": []map[string]string{
					{"url": "https://cdn.example.com/airpods.png"},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with rating above five",
			requestBody: map[string]interface{}{
				"name":        "Wireless AirPods Pro",
				"description": "Noise cancelling earbuds",
				"price":       4500,
				"category":    "audio",
				"rating":      5.5,
				"images": []map[string]string{
					{"url": "https://cdn.example.com/airpods.png"},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupControllerTestDB(t)
			controller := NewProductController(db, services.NewMockImageService())

			router := setupTestRouter()
			router.POST("/products", controller.CreateProduct)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
				return
			}

			assert.True(t, response["success"].(bool))
			data := response["data"].(map[string]interface{})
			assert.Equal(t, tt.requestBody["name"], data["name"])
			assert.Equal(t, tt.expectedSlug, data["slug"])
		})
	}
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewProductController(db, services.NewMockImageService())
	seedProduct(t, db, "Widget")

	router := setupTestRouter()
	router.POST("/products", controller.CreateProduct)

	// Same name slugifies to the same value, which the unique index rejects
	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Widget",
		"description": "Another widget",
		"price":       20,
		"category":    "gadgets",
		"images": []map[string]string{
			{"url": "https://cdn.example.com/b.png"},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "DUPLICATE_SLUG", errorData["code"])
}

func TestListProducts(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewProductController(db, services.NewMockImageService())

	first := seedProduct(t, db, "First Product")
	second := seedProduct(t, db, "Second Product")

	// Force distinct creation times so the sort is deterministic
	db.Model(&first).Update("created_at", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	db.Model(&second).Update("created_at", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))

	// Soft-deleted products must not appear
	deleted := seedProduct(t, db, "Deleted Product")
	db.Delete(&deleted)

	router := setupTestRouter()
	router.GET("/products", controller.ListProducts)

	req, _ := http.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response["success"].(bool))

	data := response["data"].([]interface{})
	assert.Equal(t, 2, len(data))

	// Newest first
	newest := data[0].(map[string]interface{})
	assert.Equal(t, "Second Product", newest["name"])
}

func TestGetProduct(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewProductController(db, services.NewMockImageService())
	product := seedProduct(t, db, "Widget")

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedError  string
	}{
		{"Found", "/products/1", http.StatusOK, ""},
		{"Not found", "/products/999", http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"Invalid ID", "/products/abc", http.StatusBadRequest, "INVALID_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/products/:id", controller.GetProduct)

			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
				return
			}

			data := response["data"].(map[string]interface{})
			assert.Equal(t, float64(product.ID), data["id"])
			assert.Equal(t, product.Name, data["name"])
		})
	}
}

func TestGetProductBySlug(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewProductController(db, services.NewMockImageService())
	seedProduct(t, db, "Wireless AirPods Pro")

	router := setupTestRouter()
	router.GET("/products/slug/:slug", controller.GetProductBySlug)

	req, _ := http.NewRequest(http.MethodGet, "/products/slug/wireless-airpods-pro", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Wireless AirPods Pro", data["name"])

	// Unknown slug
	req, _ = http.NewRequest(http.MethodGet, "/products/slug/nope", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProduct(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewProductController(db, services.NewMockImageService())
	product := seedProduct(t, db, "Widget")

	router := setupTestRouter()
	router.PUT("/products/:id", controller.UpdateProduct)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Widget Pro",
		"description": "An upgraded widget",
		"price":       25,
		"stock":       3,
		"category":    "gadgets",
		"images": []map[string]string{
			{"url": "https://cdn.example.com/new.png", "fileId": "products/new.png"},
		},
	})
	req, _ := http.NewRequest(http.MethodPut, "/products/1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	// Renaming recomputes the slug
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Widget Pro", data["name"])
	assert.Equal(t, "widget-pro", data["slug"])

	var updated models.Product
	db.First(&updated, product.ID)
	assert.Equal(t, float64(25), updated.Price)
	assert.Equal(t, "widget-pro", updated.Slug)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewProductController(db, services.NewMockImageService())

	router := setupTestRouter()
	router.PUT("/products/:id", controller.UpdateProduct)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Widget Pro",
		"description": "An upgraded widget",
		"price":       25,
		"category":    "gadgets",
		"images": []map[string]string{
			{"url": "https://cdn.example.com/new.png"},
		},
	})
	req, _ := http.NewRequest(http.MethodPut, "/products/42", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	db := setupControllerTestDB(t)
	images := services.NewMockImageService()
	controller := NewProductController(db, images)
	product := seedProduct(t, db, "Widget")

	router := setupTestRouter()
	router.DELETE("/products/:id", controller.DeleteProduct)

	req, _ := http.NewRequest(http.MethodDelete, "/products/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Soft deleted: gone from default queries, still in the table
	var found models.Product
	err := db.First(&found, product.ID).Error
	assert.Equal(t, gorm.ErrRecordNotFound, err)
	assert.NoError(t, db.Unscoped().First(&found, product.ID).Error)

	// Stored images were cleaned up
	assert.Equal(t, []string{"products/a.png"}, images.Deleted())
}

func TestDeleteProduct_NotFound(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewProductController(db, services.NewMockImageService())

	router := setupTestRouter()
	router.DELETE("/products/:id", controller.DeleteProduct)

	req, _ := http.NewRequest(http.MethodDelete, "/products/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
