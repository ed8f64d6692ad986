package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uniquestorebd/unique-store-api/models"
)

func TestGetStats(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewAdminController(db)

	db.Create(&models.User{Name: "Admin", Email: "admin@example.com", Password: "secret123", Role: models.RoleAdmin})
	db.Create(&models.User{Name: "Customer", Email: "customer@example.com", Password: "secret123"})

	seedProduct(t, db, "Widget")
	seedProduct(t, db, "Gizmo")

	orders := []models.Order{
		{OrderNumber: "101", FullName: "A", Phone: "1", Address: "x", City: "Dhaka", PaymentMethod: "COD", PaymentType: "FULL", Status: models.OrderStatusPending, TotalAmount: 100, DeliveryCharge: 5},
		{OrderNumber: "102", FullName: "B", Phone: "2", Address: "y", City: "Dhaka", PaymentMethod: "COD", PaymentType: "FULL", Status: models.OrderStatusDelivered, TotalAmount: 250, DeliveryCharge: 5},
		{OrderNumber: "103", FullName: "C", Phone: "3", Address: "z", City: "Dhaka", PaymentMethod: "COD", PaymentType: "FULL", Status: models.OrderStatusCancelled, TotalAmount: 75, DeliveryCharge: 5},
	}
	for i := range orders {
		db.Create(&orders[i])
	}

	router := setupTestRouter()
	router.GET("/admin/stats", mockAuthMiddleware(1, models.RoleAdmin), controller.GetStats)

	req, _ := http.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response["success"].(bool))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["total_orders"])
	assert.Equal(t, float64(1), data["pending_orders"])
	assert.Equal(t, float64(2), data["total_products"])
	assert.Equal(t, float64(2), data["total_users"])
	// Cancelled orders do not count toward revenue
	assert.Equal(t, float64(350), data["total_revenue"])
}

func TestGetStats_EmptyStore(t *testing.T) {
	db := setupControllerTestDB(t)
	controller := NewAdminController(db)

	router := setupTestRouter()
	router.GET("/admin/stats", mockAuthMiddleware(1, models.RoleAdmin), controller.GetStats)

	req, _ := http.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["total_orders"])
	assert.Equal(t, float64(0), data["total_revenue"])
}
