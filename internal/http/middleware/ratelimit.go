package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LoginLimiter throttles credential endpoints per client IP to slow down
// guessing. Idle entries are swept inline on the request path, so the
// limiter needs no background goroutine or teardown.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	perMin   int

	idleAfter  time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
}

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewLoginLimiter(perMinute int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &LoginLimiter{
		limiters:   make(map[string]*ipLimiter),
		perMin:     perMinute,
		idleAfter:  15 * time.Minute,
		sweepEvery: 5 * time.Minute,
		lastSweep:  time.Now(),
	}
}

func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many attempts, try again later",
				"code":       "rate_limited",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

func (l *LoginLimiter) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.sweepEvery {
		cutoff := now.Add(-l.idleAfter)
		for key, entry := range l.limiters {
			if entry.lastAccess.Before(cutoff) {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(l.perMin)/60.0), l.perMin),
		}
		l.limiters[ip] = entry
	}
	entry.lastAccess = now
	l.mu.Unlock()

	return entry.limiter.Allow()
}
