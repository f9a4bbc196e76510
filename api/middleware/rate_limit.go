package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-key (normally per-client-IP) token bucket limiter.
// limit requests are permitted per window, refilled continuously.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		window:   window,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		perSecond := rate.Limit(float64(rl.limit) / rl.window.Seconds())
		l = rate.NewLimiter(perSecond, rl.limit)
		rl.limiters[key] = l
	}
	return l
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiterFor(key).Allow()
}

// RateLimit applies rl per client IP to every request it wraps.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
