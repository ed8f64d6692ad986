package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uniquestorebd/unique-store-api/models"
	"github.com/uniquestorebd/unique-store-api/services"
)

// CartIDHeader identifies the caller's cart slot. The server issues a new
// ID when the header is absent and echoes it back on every response.
const CartIDHeader = "X-Cart-ID"

// CartController handles the server-side shopping cart endpoints.
type CartController struct {
	store    services.CartStore
	clampMin bool
}

func NewCartController(store services.CartStore, clampMin bool) *CartController {
	return &CartController{store: store, clampMin: clampMin}
}

// AddCartItemRequest is the payload for adding a product to the cart.
type AddCartItemRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" binding:"gte=0"`
	Quantity  int     `json:"quantity"`
}

// UpdateCartItemRequest changes the quantity of a line already in the cart.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the cart for the caller's cart ID, issuing one if needed.
func (cc *CartController) GetCart(c *gin.Context) {
	cartID, cart, ok := cc.loadCart(c)
	if !ok {
		return
	}
	cc.respond(c, cartID, cart)
}

// AddItem puts a product in the cart, merging with an existing line.
func (cc *CartController) AddItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Quantity must be at least 1")
		return
	}

	cartID, cart, ok := cc.loadCart(c)
	if !ok {
		return
	}

	cart.Add(models.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})

	if !cc.saveCart(c, cartID, cart) {
		return
	}
	cc.respond(c, cartID, cart)
}

// UpdateItem sets the quantity of a cart line. Quantity zero removes it,
// unless minimum-quantity clamping is enabled.
func (cc *CartController) UpdateItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Product ID must be a number")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cartID, cart, ok := cc.loadCart(c)
	if !ok {
		return
	}

	if req.Quantity < 1 && !cc.clampMin {
		cart.Remove(uint(productID))
	} else {
		cart.SetQuantity(uint(productID), req.Quantity, cc.clampMin)
	}

	if !cc.saveCart(c, cartID, cart) {
		return
	}
	cc.respond(c, cartID, cart)
}

// RemoveItem drops a product from the cart. Removing an absent product is a no-op.
func (cc *CartController) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Product ID must be a number")
		return
	}

	cartID, cart, ok := cc.loadCart(c)
	if !ok {
		return
	}

	cart.Remove(uint(productID))

	if !cc.saveCart(c, cartID, cart) {
		return
	}
	cc.respond(c, cartID, cart)
}

// ClearCart empties the cart slot entirely.
func (cc *CartController) ClearCart(c *gin.Context) {
	cartID := cc.cartID(c)
	if err := cc.store.Delete(c.Request.Context(), cartID); err != nil {
		log.Printf("Error clearing cart %s: %v", cartID, err)
		errorJSON(c, http.StatusInternalServerError, "CART_STORE_ERROR", "Failed to clear cart")
		return
	}
	cc.respond(c, cartID, models.NewCart())
}

func (cc *CartController) cartID(c *gin.Context) string {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		cartID = uuid.NewString()
	}
	return cartID
}

func (cc *CartController) loadCart(c *gin.Context) (string, *models.Cart, bool) {
	cartID := cc.cartID(c)
	cart, err := cc.store.Load(c.Request.Context(), cartID)
	if err != nil {
		log.Printf("Error loading cart %s: %v", cartID, err)
		errorJSON(c, http.StatusInternalServerError, "CART_STORE_ERROR", "Failed to load cart")
		return cartID, nil, false
	}
	return cartID, cart, true
}

func (cc *CartController) saveCart(c *gin.Context, cartID string, cart *models.Cart) bool {
	if err := cc.store.Save(c.Request.Context(), cartID, cart); err != nil {
		log.Printf("Error saving cart %s: %v", cartID, err)
		errorJSON(c, http.StatusInternalServerError, "CART_STORE_ERROR", "Failed to save cart")
		return false
	}
	return true
}

func (cc *CartController) respond(c *gin.Context, cartID string, cart *models.Cart) {
	c.Header(CartIDHeader, cartID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cart_id":  cartID,
			"items":    cart.Items,
			"subtotal": cart.Subtotal(),
		},
	})
}
