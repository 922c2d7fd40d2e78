package counter

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Store over a shared Redis deployment.
//
// It uses GET/SET rather than INCR on purpose: the Store contract is
// read-then-write, and keeping the Redis implementation to the same
// semantics keeps the documented overshoot behaviour identical across
// backends.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithPrefix namespaces all keys under prefix.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = strings.Trim(prefix, ":") }
}

// NewRedis creates a Redis-backed Store.
func NewRedis(rdb *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{rdb: rdb, prefix: "namegate"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ Store = (*Redis)(nil)

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) (int64, error) {
	val, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// A corrupt counter reads as absent rather than poisoning guards.
		return 0, nil
	}
	return n, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.rdb.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
