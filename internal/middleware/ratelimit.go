package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jotonsd/url-shortener/internal/cache"
)

func rejectTooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": "Too many requests. Please try again later.",
	})
}

func passThrough(c *gin.Context) {
	c.Next()
}

// RedisRateLimit allows maxRequests per client IP in each fixed window,
// counted in Redis so the limit holds across instances. Requests are let
// through when Redis fails. A maxRequests of 0 disables limiting.
func RedisRateLimit(limiter cache.RateLimiter, keys *cache.KeyBuilder, maxRequests int, window time.Duration, logger *slog.Logger) gin.HandlerFunc {
	if maxRequests <= 0 {
		return passThrough
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := keys.RateLimit(c.ClientIP())

		count, err := limiter.IncrementRateLimit(ctx, key, window)
		if err != nil {
			logger.WarnContext(ctx, "rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}

		if count > int64(maxRequests) {
			rejectTooManyRequests(c)
			return
		}

		c.Next()
	}
}

// InMemoryRateLimit is the single-instance sliding window used when Redis
// is disabled. A maxRequests of 0 disables limiting.
func InMemoryRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 {
		return passThrough
	}

	l := newSlidingWindow(maxRequests, window)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			rejectTooManyRequests(c)
			return
		}
		c.Next()
	}
}

// slidingWindow keeps recent request times per client. Clients with no
// request inside the window are swept at most once per window.
type slidingWindow struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	requests    map[string][]time.Time
	lastSweep   time.Time
}

func newSlidingWindow(maxRequests int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
	}
}

func (l *slidingWindow) allow(clientIP string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}

	recent := l.recent(clientIP, now)
	if len(recent) >= l.maxRequests {
		l.requests[clientIP] = recent
		return false
	}

	l.requests[clientIP] = append(recent, now)
	return true
}

func (l *slidingWindow) recent(clientIP string, now time.Time) []time.Time {
	times := l.requests[clientIP]
	recent := times[:0]
	for _, t := range times {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}
	return recent
}

func (l *slidingWindow) sweep(now time.Time) {
	for clientIP := range l.requests {
		if recent := l.recent(clientIP, now); len(recent) == 0 {
			delete(l.requests, clientIP)
		} else {
			l.requests[clientIP] = recent
		}
	}
	l.lastSweep = now
}

func (l *slidingWindow) clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}
