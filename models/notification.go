package models

import "time"

// Notification delivery states
const (
	NotificationPending = "PENDING"
	NotificationSent    = "SENT"
	NotificationFailed  = "FAILED"
)

// Notification is an outbox row for one push delivery to one subscription.
// Order creation enqueues rows; a background worker drains them, so a slow
// or failing push service never touches the order response, and failed
// deliveries stay visible and retryable.
type Notification struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	SubscriptionID uint              `gorm:"not null;index" json:"subscription_id"`
	Subscription   *PushSubscription `gorm:"foreignKey:SubscriptionID" json:"-"`
	Payload        string            `gorm:"type:text;not null" json:"payload"` // JSON {title, body}
	Status         string            `gorm:"not null;default:'PENDING';index" json:"status"`
	Attempts       int               `gorm:"default:0" json:"attempts"`
	LastError      string            `json:"last_error,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	SentAt         *time.Time        `json:"sent_at,omitempty"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
