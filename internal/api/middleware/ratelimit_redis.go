package middleware

import (
	"bank-ledger/internal/config"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "bank-ledger:ratelimit:"

// RedisRateLimiter counts requests per client IP in fixed one second windows
// shared by every service instance.
type RedisRateLimiter struct {
	client redis.Cmdable
	cfg    config.RateLimitConfig
	limit  int64
	window time.Duration
	logger *slog.Logger
}

func NewRedisRateLimiter(cfg config.RateLimitConfig, client redis.Cmdable, logger *slog.Logger) *RedisRateLimiter {
	limit := int64(math.Ceil(math.Max(cfg.RPS, float64(cfg.Burst))))
	if limit < 1 {
		limit = 1
	}
	rl := &RedisRateLimiter{
		client: client,
		cfg:    cfg,
		limit:  limit,
		window: time.Second,
		logger: logger.With("component", "RedisRateLimiter"),
	}
	if cfg.Enabled {
		rl.logger.Info("Redis rate limiter configured", "limit", limit, "window", rl.window)
	}
	return rl
}

func (rl *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled || rl.client == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := clientIP(r)
		key := redisKeyPrefix + ip

		pipe := rl.client.Pipeline()
		incrCmd := pipe.Incr(ctx, key)
		ttlCmd := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			// Fail open.
			rl.logger.ErrorContext(ctx, "Redis pipeline failed during rate limiting check", "ip", ip, slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		count := incrCmd.Val()
		if ttl := ttlCmd.Val(); ttl < 0 {
			if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
				rl.logger.ErrorContext(ctx, "Failed to set expiry on rate limit key", "key", key, slog.Any("error", err))
			}
		}

		if count > rl.limit {
			rl.logger.WarnContext(ctx, "Rate limit exceeded", "ip", ip, "count", count, "limit", rl.limit)
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
				fmt.Sprintf("Rate limit exceeded. Limit is %d requests per %v.", rl.limit, rl.window))
			return
		}

		next.ServeHTTP(w, r)
	})
}
