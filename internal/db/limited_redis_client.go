package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimitedRedisClient lists the redis commands used to keep the token pair of the operator.
// Both *redis.Client and the mock implement it.
type LimitedRedisClient interface {
	// HSET session:<id> field value [field value ...]
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	// HGETALL session:<id>
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	// EXPIREAT session:<id> unix-time-seconds, only used when a session TTL is set
	ExpireAt(ctx context.Context, key string, tm time.Time) *redis.BoolCmd
	// DEL session:<id>, on logout and when the refresh fails
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	// PING, for the health check
	Ping(ctx context.Context) *redis.StatusCmd
}
