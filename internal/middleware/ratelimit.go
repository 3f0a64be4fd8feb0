package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/visitswap/visitswap-api/internal/pkg/response"
)

const rateLimitWindow = time.Minute

// RateLimiter limits requests per client IP. With Redis it keeps a shared
// fixed-window counter per instance group; without Redis it falls back to
// in-process token buckets.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	prefix string

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter creates a limiter allowing perMinute requests per IP.
// client may be nil.
func NewRateLimiter(client *redis.Client, prefix string, perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &RateLimiter{
		redis:  client,
		limit:  perMinute,
		prefix: prefix,
		local:  make(map[string]*rate.Limiter),
	}
}

// Allow reports whether one more request for key fits in the current window
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l.redis != nil {
		allowed, err := l.allowRedis(ctx, key)
		if err == nil {
			return allowed
		}
		// Fail open on Redis trouble, local buckets still apply.
		log.Warn().Err(err).Str("key", key).Msg("Rate limiter redis unavailable, using local limiter")
	}
	return l.localLimiter(key).Allow()
}

func (l *RateLimiter) allowRedis(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().Unix() / int64(rateLimitWindow.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%s", l.prefix, key, strconv.FormatInt(bucket, 10))

	pipe := l.redis.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rateLimitWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *RateLimiter) localLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.local[key]
	if !ok {
		if len(l.local) > 10000 {
			l.local = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rate.Every(rateLimitWindow/time.Duration(l.limit)), l.limit)
		l.local[key] = limiter
	}
	return limiter
}

// Middleware rejects requests over the limit with 429
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(r.Context(), ClientIP(r)) {
			response.TooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
