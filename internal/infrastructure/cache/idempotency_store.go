package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore records processed event ids with SET NX so every
// instance agrees on which events were handled
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on a shared client
func NewRedisIdempotencyStore(client redis.UniversalClient, namespace string) *RedisIdempotencyStore {
	if namespace == "" {
		namespace = "lobapi"
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: namespace + ":events:processed:"}
}

// MarkProcessed implements shared.IdempotencyStore
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+eventID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark event %s processed: %w", eventID, err)
	}
	return ok, nil
}

// MemoryIdempotencyStore is the single-instance store. Expired ids are
// swept lazily on writes.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
	writes  int
}

// NewMemoryIdempotencyStore creates an empty store
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{expires: make(map[string]time.Time), now: time.Now}
}

const sweepEvery = 1024

// MarkProcessed implements shared.IdempotencyStore
func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expires[eventID]; ok && now.Before(exp) {
		return false, nil
	}
	s.expires[eventID] = now.Add(ttl)

	s.writes++
	if s.writes%sweepEvery == 0 {
		for id, exp := range s.expires {
			if !now.Before(exp) {
				delete(s.expires, id)
			}
		}
	}
	return true, nil
}

// Len returns the number of remembered ids, expired ones included until swept
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

// NewIdempotencyStore picks Redis when a client is available
func NewIdempotencyStore(client redis.UniversalClient, namespace string) shared.IdempotencyStore {
	if client != nil {
		return NewRedisIdempotencyStore(client, namespace)
	}
	return NewMemoryIdempotencyStore()
}
