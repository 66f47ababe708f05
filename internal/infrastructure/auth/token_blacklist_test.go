package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	blacklist := NewInMemoryTokenBlacklist()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, blacklist.Revoke(ctx, "jti-expired", 0))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked, "a non-positive ttl is ignored")

	now = now.Add(2 * time.Minute)
	revoked, err = blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.revoked)
}

func TestRedisTokenBlacklist(t *testing.T) {
	addr := os.Getenv("ERP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ERP_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	blacklist := NewRedisTokenBlacklist(client, "test-"+uuid.NewString())
	jti := uuid.NewString()

	revoked, err := blacklist.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, jti, time.Minute))
	revoked, err = blacklist.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)
}
