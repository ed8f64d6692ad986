package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uniquestorebd/unique-store-api/models"
)

const cartKeyPrefix = "cart:"

// CartStore persists a serialized cart under a cart ID. The whole cart is
// written back after every mutation; loading an unknown or unreadable cart
// yields an empty cart rather than an error, so a corrupted slot can never
// lock a customer out of shopping.
type CartStore interface {
	Load(ctx context.Context, cartID string) (*models.Cart, error)
	Save(ctx context.Context, cartID string, cart *models.Cart) error
	Delete(ctx context.Context, cartID string) error
}

// decodeCart deserializes stored cart bytes. Corrupt data resets to an
// empty cart.
func decodeCart(data []byte) *models.Cart {
	cart := models.NewCart()
	if len(data) == 0 {
		return cart
	}
	if err := json.Unmarshal(data, cart); err != nil {
		log.Printf("Discarding corrupt cart data: %v", err)
		return models.NewCart()
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart
}

// RedisCartStore keeps carts in Redis with a sliding TTL
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a Redis-backed cart store
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

// Load fetches the cart for cartID, returning an empty cart when the key
// is missing or holds unreadable data
func (s *RedisCartStore) Load(ctx context.Context, cartID string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+cartID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.NewCart(), nil
		}
		return nil, err
	}
	return decodeCart(data), nil
}

// Save serializes the cart and writes it back, refreshing the TTL
func (s *RedisCartStore) Save(ctx context.Context, cartID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKeyPrefix+cartID, data, s.ttl).Err()
}

// Delete removes the cart slot
func (s *RedisCartStore) Delete(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, cartKeyPrefix+cartID).Err()
}

// MemoryCartStore is an in-process CartStore used in tests. It stores the
// same serialized bytes the Redis store would, so round-trip behavior is
// identical.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryCartStore creates an empty in-memory cart store
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string][]byte)}
}

// Load returns the stored cart, or an empty cart when absent or corrupt
func (s *MemoryCartStore) Load(ctx context.Context, cartID string) (*models.Cart, error) {
	s.mu.RLock()
	data := s.carts[cartID]
	s.mu.RUnlock()
	return decodeCart(data), nil
}

// Save serializes and stores the cart
func (s *MemoryCartStore) Save(ctx context.Context, cartID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.carts[cartID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes the cart
func (s *MemoryCartStore) Delete(ctx context.Context, cartID string) error {
	s.mu.Lock()
	delete(s.carts, cartID)
	s.mu.Unlock()
	return nil
}

// CorruptForTesting overwrites a cart slot with unparseable bytes
func (s *MemoryCartStore) CorruptForTesting(cartID string) {
	s.mu.Lock()
	s.carts[cartID] = []byte("{not json")
	s.mu.Unlock()
}
