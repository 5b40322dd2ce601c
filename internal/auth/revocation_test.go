package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisRevoker(t *testing.T) (*RedisRevoker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	return NewRedisRevoker(client), mr
}

func TestRedisRevoker_RevokeAndExpire(t *testing.T) {
	r, mr := newTestRedisRevoker(t)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)

	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevoker_AlreadyExpiredIsNoop(t *testing.T) {
	r, mr := newTestRedisRevoker(t)

	require.NoError(t, r.Revoke(context.Background(), "old", time.Now().Add(-time.Second)))
	assert.False(t, mr.Exists(revokedKeyPrefix+"old"))
}

func TestRedisRevoker_UnavailableRedis(t *testing.T) {
	r, mr := newTestRedisRevoker(t)
	mr.Close()

	_, err := r.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "a", time.Now().Add(time.Minute)))
	revoked, err := r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	r.now = func() time.Time { return time.Now().Add(time.Hour) }
	revoked, err = r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}
