package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Limiter answers whether one more request from the given key may pass.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests per key in fixed windows with INCR and
// a TTL on first hit, so the budget is shared across gateway replicas.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}
	return count <= l.limit, nil
}

// MemoryLimiter is the in-process fallback: one token bucket per key.
type MemoryLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &MemoryLimiter{rps: rate.Limit(rps), burst: burst}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter).Allow(), nil
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		lim = actual.(*rate.Limiter)
	}
	return lim.Allow(), nil
}

// FailoverLimiter prefers the shared limiter but keeps serving from the
// local one when redis is down. An unreachable limiter never takes the
// gateway down with it.
type FailoverLimiter struct {
	primary  Limiter
	fallback Limiter
	logger   *zerolog.Logger
}

func NewFailoverLimiter(primary, fallback Limiter, logger *zerolog.Logger) *FailoverLimiter {
	return &FailoverLimiter{primary: primary, fallback: fallback, logger: logger}
}

func (l *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.primary != nil {
		allowed, err := l.primary.Allow(ctx, key)
		if err == nil {
			return allowed, nil
		}
		l.logger.Warn().Err(err).Msg("shared rate limiter unavailable, using local")
	}
	return l.fallback.Allow(ctx, key)
}
