package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/config"
	"github.com/uniquestorebd/unique-store-api/models"
)

// ErrOrderNumberSpaceExhausted is returned when no free order number could
// be found within the configured attempt budget. With the default 900-value
// space this starts to bite after a few hundred live orders; widening
// ORDER_NUMBER_MIN/MAX is the operational fix.
var ErrOrderNumberSpaceExhausted = errors.New("order number space exhausted")

// ValidationError reports a rejected order request
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewOrderNotifier is notified after an order commits. Implementations must
// not block order creation; failures are theirs to log and retry.
type NewOrderNotifier interface {
	NotifyNewOrder(order *models.Order) error
}

// CreateOrderInput is the validated-at-the-boundary order request handed to
// the service by the HTTP layer.
type CreateOrderInput struct {
	UserID         *uint
	FullName       string
	Phone          string
	Address        string
	City           string
	PaymentMethod  string
	PaymentType    string
	TransactionRef string
	// DeliveryCharge overrides the configured policy when set; nil means
	// "resolve from configuration for the given city".
	DeliveryCharge *float64
	Items          []models.CartItem
}

// OrderService creates orders: it validates the cart payload, computes the
// payable total, allocates a unique short order number, and writes the
// order plus its line items in one transaction.
type OrderService struct {
	db       *gorm.DB
	cfg      *config.Config
	notifier NewOrderNotifier
	randInt  func(n int) int // returns [0, n); injectable for tests
}

// NewOrderService creates an OrderService. notifier may be nil.
func NewOrderService(db *gorm.DB, cfg *config.Config, notifier NewOrderNotifier) *OrderService {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &OrderService{
		db:       db,
		cfg:      cfg,
		notifier: notifier,
		randInt:  rng.Intn,
	}
}

// CreateOrder validates the input, prices the order, and persists it.
// The order number is drawn at random from the configured range; the unique
// index on order_number decides collisions, and a conflicting insert is
// retried with a fresh number. Order and items commit atomically; a failure
// anywhere rolls the whole write back.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	var subtotal float64
	for _, item := range input.Items {
		subtotal += item.Price * float64(item.Quantity)
	}

	// The request may override the configured delivery charge, but only with
	// a positive amount; zero or negative overrides fall back to the policy.
	deliveryCharge := s.cfg.DeliveryChargeFor(input.City)
	if input.DeliveryCharge != nil && *input.DeliveryCharge > 0 {
		deliveryCharge = *input.DeliveryCharge
	}

	// Partial payment decouples the payable total from the cart subtotal:
	// the customer pays a fixed deposit up front and the rest on delivery.
	total := subtotal + deliveryCharge
	if input.PaymentType == models.PaymentTypePartial {
		total = s.cfg.PartialDepositAmount + deliveryCharge
	}

	attempts := s.cfg.OrderNumberAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		order := &models.Order{
			OrderNumber:    s.nextOrderNumber(),
			UserID:         input.UserID,
			FullName:       input.FullName,
			Phone:          input.Phone,
			Address:        input.Address,
			City:           input.City,
			PaymentMethod:  input.PaymentMethod,
			PaymentType:    input.PaymentType,
			TransactionRef: input.TransactionRef,
			Status:         models.OrderStatusPending,
			TotalAmount:    total,
			DeliveryCharge: deliveryCharge,
			Items:          make([]models.OrderItem, 0, len(input.Items)),
		}
		for _, item := range input.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(order).Error
		})
		if err == nil {
			s.notify(order)
			return order, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		log.Printf("Order number %s already taken, retrying (%d/%d)", order.OrderNumber, attempt+1, attempts)
	}

	return nil, ErrOrderNumberSpaceExhausted
}

// notify hands the committed order to the notifier. Notification problems
// are logged and swallowed; they never affect the order response.
func (s *OrderService) notify(order *models.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyNewOrder(order); err != nil {
		log.Printf("Failed to enqueue notifications for order %s: %v", order.OrderNumber, err)
	}
}

func (s *OrderService) nextOrderNumber() string {
	span := s.cfg.OrderNumberMax - s.cfg.OrderNumberMin + 1
	return strconv.Itoa(s.cfg.OrderNumberMin + s.randInt(span))
}

func validateCreateOrder(input CreateOrderInput) error {
	switch {
	case strings.TrimSpace(input.FullName) == "":
		return &ValidationError{Message: "full name is required"}
	case strings.TrimSpace(input.Phone) == "":
		return &ValidationError{Message: "phone is required"}
	case strings.TrimSpace(input.Address) == "":
		return &ValidationError{Message: "address is required"}
	case strings.TrimSpace(input.City) == "":
		return &ValidationError{Message: "city is required"}
	}
	if !models.ValidPaymentMethod(input.PaymentMethod) {
		return &ValidationError{Message: "invalid payment method"}
	}
	if !models.ValidPaymentType(input.PaymentType) {
		return &ValidationError{Message: "invalid payment type"}
	}
	if input.PaymentMethod != models.PaymentMethodCOD && strings.TrimSpace(input.TransactionRef) == "" {
		return &ValidationError{Message: "transaction reference is required for wallet payments"}
	}
	if len(input.Items) == 0 {
		return &ValidationError{Message: "cart is empty"}
	}
	for _, item := range input.Items {
		if item.ProductID == 0 {
			return &ValidationError{Message: "cart item is missing a product"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Message: "cart item quantity must be at least 1"}
		}
		if item.Price < 0 {
			return &ValidationError{Message: "cart item price cannot be negative"}
		}
	}
	return nil
}

// isUniqueViolation detects a unique-index conflict across PostgreSQL and
// SQLite error texts.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
