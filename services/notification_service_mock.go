package services

import (
	"context"
	"sync"

	"github.com/uniquestorebd/unique-store-api/models"
)

// MockWebPushSender is a WebPushSender for tests: it records every send and
// fails with a scripted error when one is set.
type MockWebPushSender struct {
	mu       sync.Mutex
	sent     []MockSentPush
	failWith error
}

// MockSentPush is one recorded delivery
type MockSentPush struct {
	Endpoint string
	Payload  string
}

// NewMockWebPushSender creates a mock sender that succeeds by default
func NewMockWebPushSender() *MockWebPushSender {
	return &MockWebPushSender{}
}

// Send records the delivery, or returns the scripted failure
func (m *MockWebPushSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, MockSentPush{Endpoint: sub.Endpoint, Payload: string(payload)})
	return nil
}

// FailWith makes subsequent sends return err; pass nil to succeed again
func (m *MockWebPushSender) FailWith(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// Sent returns a copy of the recorded deliveries
func (m *MockWebPushSender) Sent() []MockSentPush {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockSentPush, len(m.sent))
	copy(out, m.sent)
	return out
}
