package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ms-airport/internal/logger"
	"ms-airport/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const pendingPrefix = "pending:"

// completeScript swaps a pending token for the order id, only if the key still holds the token.
var completeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
end
return false
`)

// releaseScript deletes the key only if it still holds the token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis remembers which order an Idempotency-Key produced, per user.
// A key is "pending:<uuid>" while its request runs and the order id afterwards.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	return &Redis{Client: client, TTL: ttl, Logger: log}
}

func idempotencyKey(userID, key string) string {
	return fmt.Sprintf("order_idem:%s:%s", userID, key)
}

// Claim takes the key for a new request. When the key is taken, the claim
// carries the finished order id, or no id while the first request still runs.
func (r *Redis) Claim(ctx context.Context, userID, key string) (models.IdempotencyClaim, error) {
	k := idempotencyKey(userID, key)

	for attempt := 0; attempt < 2; attempt++ {
		token := pendingPrefix + uuid.NewString()
		ok, err := r.Client.SetNX(ctx, k, token, r.TTL).Result()
		if err != nil {
			return models.IdempotencyClaim{}, fmt.Errorf("claim idempotency key: %w", err)
		}
		if ok {
			return models.IdempotencyClaim{Acquired: true, Token: token}, nil
		}

		val, err := r.Client.Get(ctx, k).Result()
		if err == redis.Nil {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return models.IdempotencyClaim{}, fmt.Errorf("read idempotency key: %w", err)
		}
		if strings.HasPrefix(val, pendingPrefix) {
			return models.IdempotencyClaim{}, nil
		}
		orderID, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return models.IdempotencyClaim{}, fmt.Errorf("corrupt idempotency key %s: %q", k, val)
		}
		return models.IdempotencyClaim{OrderID: orderID}, nil
	}
	return models.IdempotencyClaim{}, nil
}

// Complete records orderID as the result of the claimed key.
func (r *Redis) Complete(ctx context.Context, userID, key, token string, orderID int64) error {
	err := completeScript.Run(ctx, r.Client, []string{idempotencyKey(userID, key)},
		token, strconv.FormatInt(orderID, 10), r.TTL.Milliseconds()).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release frees a claimed key after a failed request so the client can retry.
func (r *Redis) Release(ctx context.Context, userID, key, token string) error {
	if err := releaseScript.Run(ctx, r.Client, []string{idempotencyKey(userID, key)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
