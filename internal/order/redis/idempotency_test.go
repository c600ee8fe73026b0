package redis

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"ms-airport/internal/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client using miniredis for testing
func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedis(client, time.Hour, logger.NewWithWriter(&bytes.Buffer{})), mr
}

func TestClaim_FirstWins(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	first, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	assert.True(t, first.Acquired)
	assert.NotEmpty(t, first.Token)

	second, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	assert.False(t, second.Acquired)
	assert.Zero(t, second.OrderID)

	other, err := r.Claim(ctx, "user-2", "k1")
	require.NoError(t, err)
	assert.True(t, other.Acquired)
}

func TestComplete_ReplaysOrderID(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	claim, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	require.NoError(t, r.Complete(ctx, "user-1", "k1", claim.Token, 42))

	replay, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	assert.False(t, replay.Acquired)
	assert.Equal(t, int64(42), replay.OrderID)
	assert.Greater(t, mr.TTL(idempotencyKey("user-1", "k1")), time.Duration(0))
}

func TestComplete_IgnoresForeignToken(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	require.NoError(t, r.Complete(ctx, "user-1", "k1", "pending:someone-else", 7))

	val, err := mr.Get(idempotencyKey("user-1", "k1"))
	require.NoError(t, err)
	assert.Contains(t, val, pendingPrefix)
}

func TestRelease_AllowsRetry(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	claim, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	require.NoError(t, r.Release(ctx, "user-1", "k1", "pending:wrong"))

	blocked, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	assert.False(t, blocked.Acquired)

	require.NoError(t, r.Release(ctx, "user-1", "k1", claim.Token))
	retry, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	assert.True(t, retry.Acquired)
}

func TestClaim_ExpiredKeyIsFree(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	claim, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	require.NoError(t, r.Complete(ctx, "user-1", "k1", claim.Token, 5))
	mr.FastForward(2 * time.Hour)

	again, err := r.Claim(ctx, "user-1", "k1")
	require.NoError(t, err)
	assert.True(t, again.Acquired)
}

func TestClaim_ConcurrentExactlyOne(t *testing.T) {
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claim, err := r.Claim(ctx, "user-1", "same")
			if err == nil && claim.Acquired {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, acquired)
}
