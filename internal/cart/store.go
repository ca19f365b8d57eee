package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store keeps carts keyed by the cart id held in the user's session.
// Get returns an empty cart for unknown keys.
type Store interface {
	Get(ctx context.Context, key string) (*Cart, error)
	Put(ctx context.Context, key string, c *Cart) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps carts in process. Carts not written for longer than the
// idle limit are dropped by Cleanup.
type MemoryStore struct {
	carts map[string]memoryCart
	mutex sync.RWMutex
}

type memoryCart struct {
	entries []Entry
	touched time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]memoryCart),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Cart, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c, ok := s.carts[key]
	if !ok {
		return &Cart{}, nil
	}
	// Copy so callers cannot mutate the stored slice.
	return &Cart{Entries: append([]Entry(nil), c.entries...)}, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, c *Cart) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if c.Empty() {
		delete(s.carts, key)
		return nil
	}
	s.carts[key] = memoryCart{
		entries: append([]Entry(nil), c.Entries...),
		touched: time.Now(),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.carts, key)
	return nil
}

// Len is the number of stored carts.
func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.carts)
}

// Cleanup removes carts not written for longer than maxIdle.
func (s *MemoryStore) Cleanup(maxIdle time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	removed := 0
	for key, c := range s.carts {
		if now.Sub(c.touched) > maxIdle {
			delete(s.carts, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every minute until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, maxIdle time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(maxIdle); n > 0 {
				slog.Debug("Expired idle carts", "count", n)
			}
		}
	}
}

const redisKeyPrefix = "cart:"

// RedisStore keeps carts as JSON values that expire after ttl of inactivity.
type RedisStore struct {
	Client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Cart, error) {
	val, err := s.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(val, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, c *Cart) error {
	if c.Empty() {
		return s.Delete(ctx, key)
	}
	val, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.Client.Set(ctx, redisKeyPrefix+key, val, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
