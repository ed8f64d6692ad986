package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/config"
	"github.com/uniquestorebd/unique-store-api/models"
)

// ErrSubscriptionGone means the push service no longer knows the endpoint;
// the stored subscription is stale and should be dropped.
var ErrSubscriptionGone = errors.New("push subscription gone")

// WebPushSender delivers one payload to one browser push subscription
type WebPushSender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) error
}

// VAPIDSender sends browser notifications through the Web Push protocol
type VAPIDSender struct {
	publicKey  string
	privateKey string
	subject    string
}

// NewVAPIDSender creates a sender using the configured VAPID key pair
func NewVAPIDSender(cfg *config.Config) *VAPIDSender {
	return &VAPIDSender{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subject:    cfg.VAPIDSubject,
	}
}

// Send pushes the payload to the subscription endpoint
func (s *VAPIDSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return nil
}

// notificationPayload is the JSON shown by the service worker
type notificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotificationService implements the admin push notification outbox:
// NotifyNewOrder enqueues one row per admin subscription, and Run drains
// the queue in the background with per-row retry accounting. Delivery is
// at-least-once and failures stay queryable in the notifications table.
type NotificationService struct {
	db          *gorm.DB
	sender      WebPushSender
	maxAttempts int
	interval    time.Duration
	wake        chan struct{}
}

// NewNotificationService creates a NotificationService
func NewNotificationService(db *gorm.DB, sender WebPushSender) *NotificationService {
	return &NotificationService{
		db:          db,
		sender:      sender,
		maxAttempts: 3,
		interval:    15 * time.Second,
		wake:        make(chan struct{}, 1),
	}
}

// NotifyNewOrder enqueues a "new order" notification for every stored
// subscription of every admin user. It only writes outbox rows; delivery
// happens in the worker, so the caller is never exposed to push latency.
func (s *NotificationService) NotifyNewOrder(order *models.Order) error {
	var admins []models.User
	if err := s.db.Preload("Subscriptions").Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		return fmt.Errorf("failed to load admin subscriptions: %w", err)
	}

	payload, err := json.Marshal(notificationPayload{
		Title: "New Order Received!",
		Body:  fmt.Sprintf("Order #%s for %.2f placed.", order.OrderNumber, order.TotalAmount),
	})
	if err != nil {
		return err
	}

	var rows []models.Notification
	for _, admin := range admins {
		for _, sub := range admin.Subscriptions {
			rows = append(rows, models.Notification{
				SubscriptionID: sub.ID,
				Payload:        string(payload),
				Status:         models.NotificationPending,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to enqueue notifications: %w", err)
	}
	s.nudge()
	return nil
}

// Run drains the outbox until the context is cancelled. Intended to run in
// its own goroutine, started from main.
func (s *NotificationService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Println("Notification worker started")
	for {
		s.ProcessPending(ctx)
		select {
		case <-ctx.Done():
			log.Println("Notification worker stopped")
			return
		case <-ticker.C:
		case <-s.wake:
		}
	}
}

// ProcessPending attempts delivery for every pending outbox row once.
// Exported so tests can drive the worker synchronously.
func (s *NotificationService) ProcessPending(ctx context.Context) {
	var pending []models.Notification
	err := s.db.Preload("Subscription").
		Where("status = ?", models.NotificationPending).
		Order("id").
		Find(&pending).Error
	if err != nil {
		log.Printf("Failed to load pending notifications: %v", err)
		return
	}

	for i := range pending {
		if ctx.Err() != nil {
			return
		}
		s.deliver(ctx, &pending[i])
	}
}

func (s *NotificationService) deliver(ctx context.Context, n *models.Notification) {
	if n.Subscription == nil {
		// Subscription was removed after enqueue; nothing to deliver to.
		s.mark(n, map[string]interface{}{
			"status":     models.NotificationFailed,
			"last_error": "subscription no longer exists",
		})
		return
	}

	err := s.sender.Send(ctx, *n.Subscription, []byte(n.Payload))
	if err == nil {
		now := time.Now()
		s.mark(n, map[string]interface{}{
			"status":   models.NotificationSent,
			"attempts": n.Attempts + 1,
			"sent_at":  &now,
		})
		return
	}

	if errors.Is(err, ErrSubscriptionGone) {
		log.Printf("Dropping stale push subscription %d", n.SubscriptionID)
		if err := s.db.Delete(&models.PushSubscription{}, n.SubscriptionID).Error; err != nil {
			log.Printf("Failed to delete stale push subscription %d: %v", n.SubscriptionID, err)
		}
		s.mark(n, map[string]interface{}{
			"status":     models.NotificationFailed,
			"attempts":   n.Attempts + 1,
			"last_error": err.Error(),
		})
		return
	}

	log.Printf("Push delivery failed for notification %d (attempt %d): %v", n.ID, n.Attempts+1, err)
	status := models.NotificationPending
	if n.Attempts+1 >= s.maxAttempts {
		status = models.NotificationFailed
	}
	s.mark(n, map[string]interface{}{
		"status":     status,
		"attempts":   n.Attempts + 1,
		"last_error": err.Error(),
	})
}

// mark persists the retry accounting for an outbox row. A failed write is
// logged; the row stays in its previous state and is picked up again on the
// next pass.
func (s *NotificationService) mark(n *models.Notification, fields map[string]interface{}) {
	if err := s.db.Model(n).Updates(fields).Error; err != nil {
		log.Printf("Failed to record delivery state for notification %d: %v", n.ID, err)
	}
}

// nudge wakes the worker without waiting for the next tick
func (s *NotificationService) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
