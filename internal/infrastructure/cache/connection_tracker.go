package cache

import (
	"context"
	"fmt"
	"sort"
	"time"

	messagingapp "github.com/erp/lobapi/internal/application/messaging"
	"github.com/erp/lobapi/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ messagingapp.ConnectionTracker = (*RedisConnectionTracker)(nil)

const defaultTrackerNamespace = "messaging:connections"

// RedisConnectionTracker keeps the live websocket connection ids of each user in a
// Redis set so every API instance sees the same presence. Sets expire after ttl
// unless AddConnection is called again, which the socket keepalive does.
type RedisConnectionTracker struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
}

// NewRedisConnectionTracker creates a tracker using an existing client
func NewRedisConnectionTracker(client redis.UniversalClient, namespace string, ttl time.Duration) *RedisConnectionTracker {
	if namespace == "" {
		namespace = defaultTrackerNamespace
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisConnectionTracker{client: client, namespace: namespace, ttl: ttl}
}

func (t *RedisConnectionTracker) key(tenantID, userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", t.namespace, tenantID, userID)
}

// AddConnection adds the id and refreshes the expiry of the user's set
func (t *RedisConnectionTracker) AddConnection(ctx context.Context, tenantID, userID uuid.UUID, connectionID string) error {
	key := t.key(tenantID, userID)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, connectionID)
		pipe.Expire(ctx, key, t.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to track connection: %w", err)
	}
	return nil
}

func (t *RedisConnectionTracker) RemoveConnection(ctx context.Context, tenantID, userID uuid.UUID, connectionID string) error {
	if err := t.client.SRem(ctx, t.key(tenantID, userID), connectionID).Err(); err != nil {
		return fmt.Errorf("failed to untrack connection: %w", err)
	}
	return nil
}

func (t *RedisConnectionTracker) GetConnections(ctx context.Context, tenantID, userID uuid.UUID) ([]string, error) {
	ids, err := t.client.SMembers(ctx, t.key(tenantID, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (t *RedisConnectionTracker) IsOnline(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	n, err := t.client.SCard(ctx, t.key(tenantID, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence: %w", err)
	}
	return n > 0, nil
}

// NewConnectionTracker picks the Redis tracker when configured and the
// process-local tracker otherwise
func NewConnectionTracker(cfg config.MessagingConfig, client redis.UniversalClient, logger *zap.Logger) messagingapp.ConnectionTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UseRedisTracker && client != nil {
		logger.Info("using Redis connection tracker", zap.String("namespace", cfg.TrackerKeyNamespace))
		return NewRedisConnectionTracker(client, cfg.TrackerKeyNamespace, cfg.TrackerTTL)
	}
	if cfg.UseRedisTracker {
		logger.Warn("Redis connection tracker requested without a Redis client; presence is per instance")
	}
	return messagingapp.NewMemoryConnectionTracker()
}
