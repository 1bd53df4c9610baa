package rotation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces throttle keys in a shared Redis instance.
const keyPrefix = "authkit:rotation:"

// RedisThrottle enforces rotation attempt spacing across server instances by
// keeping attempt markers in Redis with a TTL equal to the minimum interval.
//
// Redis errors fail open: rotation is advisory, so an unreachable Redis must
// never block credential renewal. At worst, instances fall back to
// uncoordinated attempts, which the backend tolerates because refresh is
// idempotent from the client's perspective.
type RedisThrottle struct {
	client   redis.UniversalClient
	interval time.Duration
}

// NewRedisThrottle creates a Redis-backed throttle. A nil client is a
// programming error and panics.
func NewRedisThrottle(client redis.UniversalClient, interval time.Duration) *RedisThrottle {
	if client == nil {
		panic("rotation throttle: redis client is required")
	}
	return &RedisThrottle{client: client, interval: interval}
}

func (t *RedisThrottle) Ready(ctx context.Context, key string) bool {
	n, err := t.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return true
	}
	return n == 0
}

func (t *RedisThrottle) Mark(ctx context.Context, key string) {
	// The marker expires on its own after the interval; no cleanup needed.
	_ = t.client.Set(ctx, keyPrefix+key, 1, t.interval).Err()
}
