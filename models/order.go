package models

import (
	"time"
)

// Payment methods
const (
	PaymentMethodCOD   = "COD"
	PaymentMethodBkash = "BKASH"
	PaymentMethodNagad = "NAGAD"
)

// Payment types
const (
	PaymentTypeFull    = "FULL"
	PaymentTypePartial = "PARTIAL"
)

// Order statuses. There is no enforced transition graph; an admin update
// may set any of these.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCOD || m == PaymentMethodBkash || m == PaymentMethodNagad
}

// ValidPaymentType reports whether t is a known payment type
func ValidPaymentType(t string) bool {
	return t == PaymentTypeFull || t == PaymentTypePartial
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a customer order. OrderNumber is the short display
// identifier shown to customers and admins; the database enforces its
// uniqueness, and order creation retries on conflict.
type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	OrderNumber    string      `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID         *uint       `gorm:"index" json:"user_id,omitempty"`
	User           *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FullName       string      `gorm:"not null" json:"full_name"`
	Phone          string      `gorm:"not null" json:"phone"`
	Address        string      `gorm:"not null" json:"address"`
	City           string      `gorm:"not null" json:"city"`
	PaymentMethod  string      `gorm:"not null" json:"payment_method"` // COD, BKASH, NAGAD
	PaymentType    string      `gorm:"not null;default:'FULL'" json:"payment_type"`
	TransactionRef string      `json:"transaction_ref,omitempty"` // wallet transaction id, required unless COD
	Status         string      `gorm:"not null;default:'PENDING'" json:"status"`
	TotalAmount    float64     `gorm:"not null" json:"total_amount"`
	DeliveryCharge float64     `gorm:"not null" json:"delivery_charge"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Subtotal returns the sum of line totals, excluding the delivery charge
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// OrderItem is a line of an order: a product reference with the quantity
// and the unit price snapshotted at order time. Immutable once created.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64  `gorm:"not null" json:"price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
