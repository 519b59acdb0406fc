// Package redisclient owns the shared Redis connection used for rate limiting and token revocation.
package redisclient

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"network/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "blacklist:"

var client *redis.Client

type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis initializes the Redis client with the given address or redis:// URL.
// On failure the client stays nil and the app runs without Redis-backed features.
func InitRedis(addr string) {
	client = nil
	if addr == "" {
		middleware.Logger.Warn("Redis address not configured, continuing without Redis")
		return
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL, continuing without Redis", slog.String("error", err.Error()))
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis connection failed, continuing without Redis", slog.String("error", err.Error()))
		_ = rdb.Close()
		return
	}

	middleware.Logger.Info("Redis connected successfully")
	client = rdb
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}

// RevokeToken marks a JWT ID as revoked until ttl elapses.
func RevokeToken(ctx context.Context, rdb *redis.Client, jti string, ttl time.Duration) error {
	if rdb == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was revoked. Redis errors count as not revoked.
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, jti string) bool {
	if rdb == nil || jti == "" {
		return false
	}
	n, err := rdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	return err == nil && n > 0
}
