package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/models"
)

func setupNotificationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.PushSubscription{}, &models.Notification{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedAdminWithSubscriptions(t *testing.T, db *gorm.DB, email string, endpoints ...string) models.User {
	t.Helper()
	admin := models.User{Name: "Admin", Email: email, Password: "pw", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	for _, endpoint := range endpoints {
		sub := models.PushSubscription{UserID: admin.ID, Endpoint: endpoint, P256dh: "key", Auth: "auth"}
		require.NoError(t, db.Create(&sub).Error)
	}
	return admin
}

func testOrder() *models.Order {
	return &models.Order{OrderNumber: "123", TotalAmount: 105}
}

func TestNotifyNewOrderEnqueuesPerSubscription(t *testing.T) {
	db := setupNotificationTestDB(t)
	seedAdminWithSubscriptions(t, db, "a1@example.com", "https://push/1", "https://push/2")
	seedAdminWithSubscriptions(t, db, "a2@example.com", "https://push/3")

	// Non-admin subscriptions must not be notified
	user := models.User{Name: "Shopper", Email: "u@example.com", Password: "pw"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.PushSubscription{
		UserID: user.ID, Endpoint: "https://push/user", P256dh: "k", Auth: "a",
	}).Error)

	svc := NewNotificationService(db, NewMockWebPushSender())
	require.NoError(t, svc.NotifyNewOrder(testOrder()))

	var rows []models.Notification
	db.Find(&rows)
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, models.NotificationPending, row.Status)
		assert.Contains(t, row.Payload, "Order #123")
		assert.Contains(t, row.Payload, "105.00")
	}
}

func TestNotifyNewOrderWithoutAdmins(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db, NewMockWebPushSender())

	require.NoError(t, svc.NotifyNewOrder(testOrder()))

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestProcessPendingDelivers(t *testing.T) {
	db := setupNotificationTestDB(t)
	seedAdminWithSubscriptions(t, db, "a@example.com", "https://push/1")

	sender := NewMockWebPushSender()
	svc := NewNotificationService(db, sender)
	require.NoError(t, svc.NotifyNewOrder(testOrder()))

	svc.ProcessPending(context.Background())

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "https://push/1", sent[0].Endpoint)

	var row models.Notification
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, models.NotificationSent, row.Status)
	assert.Equal(t, 1, row.Attempts)
	assert.NotNil(t, row.SentAt)
}

func TestProcessPendingRetriesThenFails(t *testing.T) {
	db := setupNotificationTestDB(t)
	seedAdminWithSubscriptions(t, db, "a@example.com", "https://push/1")

	sender := NewMockWebPushSender()
	sender.FailWith(fmt.Errorf("push service down"))
	svc := NewNotificationService(db, sender)
	require.NoError(t, svc.NotifyNewOrder(testOrder()))

	ctx := context.Background()

	// First two attempts stay pending with the error recorded
	svc.ProcessPending(ctx)
	var row models.Notification
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, models.NotificationPending, row.Status)
	assert.Equal(t, 1, row.Attempts)
	assert.Contains(t, row.LastError, "push service down")

	svc.ProcessPending(ctx)
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, models.NotificationPending, row.Status)
	assert.Equal(t, 2, row.Attempts)

	// Third attempt exhausts the budget
	svc.ProcessPending(ctx)
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, models.NotificationFailed, row.Status)
	assert.Equal(t, 3, row.Attempts)
}

func TestProcessPendingRecoversAfterTransientFailure(t *testing.T) {
	db := setupNotificationTestDB(t)
	seedAdminWithSubscriptions(t, db, "a@example.com", "https://push/1")

	sender := NewMockWebPushSender()
	sender.FailWith(fmt.Errorf("timeout"))
	svc := NewNotificationService(db, sender)
	require.NoError(t, svc.NotifyNewOrder(testOrder()))

	ctx := context.Background()
	svc.ProcessPending(ctx)

	sender.FailWith(nil)
	svc.ProcessPending(ctx)

	var row models.Notification
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, models.NotificationSent, row.Status)
	assert.Equal(t, 2, row.Attempts)
	assert.Len(t, sender.Sent(), 1)
}

func TestDeliverLogsFailedStatusWrite(t *testing.T) {
	db := setupNotificationTestDB(t)
	seedAdminWithSubscriptions(t, db, "a@example.com", "https://push/1")

	sender := NewMockWebPushSender()
	svc := NewNotificationService(db, sender)
	require.NoError(t, svc.NotifyNewOrder(testOrder()))

	var row models.Notification
	require.NoError(t, db.Preload("Subscription").First(&row).Error)

	// Losing the outbox table makes every status write fail
	require.NoError(t, db.Migrator().DropTable(&models.Notification{}))

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	svc.deliver(context.Background(), &row)

	assert.Len(t, sender.Sent(), 1)
	assert.Contains(t, buf.String(), "Failed to record delivery state")
}

func TestProcessPendingDropsGoneSubscription(t *testing.T) {
	db := setupNotificationTestDB(t)
	seedAdminWithSubscriptions(t, db, "a@example.com", "https://push/1")

	sender := NewMockWebPushSender()
	sender.FailWith(ErrSubscriptionGone)
	svc := NewNotificationService(db, sender)
	require.NoError(t, svc.NotifyNewOrder(testOrder()))

	svc.ProcessPending(context.Background())

	var row models.Notification
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, models.NotificationFailed, row.Status)

	var subs int64
	db.Model(&models.PushSubscription{}).Count(&subs)
	assert.Equal(t, int64(0), subs, "a gone subscription must be deleted")
}
