package mw

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// KeyedLimiter stores a rate limiter per key (client IP). Limiters that have
// not been used for the idle period are evicted.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	r        rate.Limit
	b        int
}

// NewKeyedLimiter creates a KeyedLimiter. idle <= 0 defaults to 10 minutes.
func NewKeyedLimiter(r rate.Limit, b int, idle time.Duration) *KeyedLimiter {
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &KeyedLimiter{
		limiters: cache.New(idle, 2*idle),
		r:        r,
		b:        b,
	}
}

// Get returns the limiter for key, creating it on first use.
func (l *KeyedLimiter) Get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.limiters.Get(key); found {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(key, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(l.r, l.b)
	l.limiters.SetDefault(key, limiter)
	return limiter
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(l *KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Get(c.ClientIP()).Allow() {
			c.Next()
			return
		}
		const msg = "Too many attempts, please wait a moment and try again."
		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": msg})
			return
		}
		c.String(http.StatusTooManyRequests, msg)
		c.Abort()
	}
}
