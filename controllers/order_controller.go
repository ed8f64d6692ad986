package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/middleware"
	"github.com/uniquestorebd/unique-store-api/models"
	"github.com/uniquestorebd/unique-store-api/services"
)

// OrderController handles checkout and back-office order management.
type OrderController struct {
	db       *gorm.DB
	orders   *services.OrderService
	invoices *services.InvoiceService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService, invoices *services.InvoiceService) *OrderController {
	return &OrderController{db: db, orders: orders, invoices: invoices}
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	FullName       string            `json:"full_name"`
	Phone          string            `json:"phone"`
	Address        string            `json:"address"`
	City           string            `json:"city"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentType    string            `json:"payment_type"`
	TransactionRef string            `json:"transaction_ref"`
	DeliveryCharge *float64          `json:"delivery_charge"`
	CartItems      []models.CartItem `json:"cart_items"`
}

// UpdateOrderRequest carries the back-office mutable order fields.
type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentMethod *string `json:"payment_method"`
}

// CreateOrder places a new order from the submitted cart items.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if req.PaymentType == "" {
		req.PaymentType = models.PaymentTypeFull
	}

	input := services.CreateOrderInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		PaymentMethod:  req.PaymentMethod,
		PaymentType:    req.PaymentType,
		TransactionRef: req.TransactionRef,
		DeliveryCharge: req.DeliveryCharge,
		Items:          req.CartItems,
	}

	// Orders placed while signed in are linked to the account.
	if claims, err := middleware.GetClaims(c); err == nil {
		userID := claims.UserID
		input.UserID = &userID
	}

	order, err := oc.orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
			return
		}
		if errors.Is(err, services.ErrOrderNumberSpaceExhausted) {
			errorJSON(c, http.StatusInternalServerError, "ORDER_NUMBER_EXHAUSTED", "Could not allocate an order number")
			return
		}
		log.Printf("Error creating order: %v", err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders returns all orders, newest first. Admin only.
func (oc *OrderController) ListOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		log.Printf("Error fetching orders: %v", err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder returns a single order with its items and product details. Admin only.
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Order ID must be a number")
		return
	}

	order, err := oc.loadOrder(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		log.Printf("Error fetching order %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrderByNumber looks an order up by its public order number for tracking.
func (oc *OrderController) GetOrderByNumber(c *gin.Context) {
	var order models.Order
	err := oc.db.Preload("Items.Product").
		Where("order_number = ?", c.Param("number")).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		log.Printf("Error fetching order by number %q: %v", c.Param("number"), err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder changes an order's status or payment method. Admin only.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Order ID must be a number")
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.Status == nil && req.PaymentMethod == nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Nothing to update")
		return
	}
	if req.Status != nil && !models.ValidOrderStatus(*req.Status) {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("Invalid order status: %s", *req.Status))
		return
	}
	if req.PaymentMethod != nil && !models.ValidPaymentMethod(*req.PaymentMethod) {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("Invalid payment method: %s", *req.PaymentMethod))
		return
	}

	var order models.Order
	if err := oc.db.First(&order, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		log.Printf("Error fetching order %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch order")
		return
	}

	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}

	if err := oc.db.Save(&order).Error; err != nil {
		log.Printf("Error updating order %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order")
		return
	}

	updated, err := oc.loadOrder(order.ID)
	if err != nil {
		log.Printf("Error reloading order %d: %v", order.ID, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// GetInvoice renders the order's invoice as a PDF download. Admin only.
func (oc *OrderController) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Order ID must be a number")
		return
	}

	order, err := oc.loadOrder(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			errorJSON(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		log.Printf("Error fetching order %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch order")
		return
	}

	pdf, err := oc.invoices.Render(order)
	if err != nil {
		log.Printf("Error rendering invoice for order %d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "INVOICE_ERROR", "Failed to generate invoice")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (oc *OrderController) loadOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := oc.db.Preload("Items.Product").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
