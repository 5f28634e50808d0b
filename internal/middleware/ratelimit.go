package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Rate limiting uses fixed one-minute windows; the request budget and key
// prefix come from deployment config so the storefront and a staging
// instance can run different policies against the same redis.
const rateLimitWindow = time.Minute

// RateLimitConfig carries the deployment's rate-limit policy.
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
}

// clientIdentity keys the limiter: the shopper's account when
// authenticated, the client IP otherwise, so one cranky anonymous crawler
// cannot exhaust a logged-in shopper's budget.
func clientIdentity(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimitMiddleware enforces the per-minute request budget backed by
// redis. Redis being down never blocks shoppers; the limiter fails open.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("%s:%s", config.KeyPrefix, clientIdentity(r))
			ctx := r.Context()

			pipe := redisClient.Pipeline()
			incr := pipe.Incr(ctx, key)
			ttl := pipe.TTL(ctx, key)
			if _, err := pipe.Exec(ctx); err != nil {
				logger.Error("Rate limit check failed, allowing request",
					zap.Error(err),
					zap.String("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}

			count := incr.Val()
			window := ttl.Val()
			if window < 0 {
				// First request of the window (or a key left without
				// expiry by a crash); start a fresh window.
				window = rateLimitWindow
				redisClient.Expire(ctx, key, rateLimitWindow)
			}

			if count > int64(config.RequestsPerMinute) {
				logger.Warn("Rate limit exceeded",
					zap.String("identity", clientIdentity(r)),
					zap.Int64("count", count),
					zap.Int("limit", config.RequestsPerMinute),
				)

				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))

				respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			remaining := config.RequestsPerMinute - int(count)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		})
	}
}
