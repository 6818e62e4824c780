package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"aethon-assistant/internal/config"
	"aethon-assistant/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter tracks a per-client token bucket and its last use so
// idle entries can be evicted.
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements in-memory per-IP rate limiting
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*ipLimiter
	rate     rate.Limit
	burst    int
	window   int
	limit    int
	lastSweep time.Time
}

// NewRateLimiter creates a limiter allowing cfg.RateLimitReqs requests
// per cfg.RateLimitWindow seconds for each client IP.
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		clients:  make(map[string]*ipLimiter),
		rate:     rate.Limit(float64(cfg.RateLimitReqs) / float64(cfg.RateLimitWindow)),
		burst:    cfg.RateLimitReqs,
		window:   cfg.RateLimitWindow,
		limit:    cfg.RateLimitReqs,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Evict entries idle for several windows, at most once a minute
	now := time.Now()
	if now.Sub(rl.lastSweep) > time.Minute {
		idle := time.Duration(3*rl.window) * time.Second
		for ip, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > idle {
				delete(rl.clients, ip)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.clients[ip]
	if !ok {
		cl = &ipLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimitMiddleware limits requests per client IP
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting for health checks
		if c.FullPath() == "/health" || c.FullPath() == "/ready" {
			c.Next()
			return
		}

		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(
				time.Now().Add(time.Duration(rl.window)*time.Second).Unix(), 10))

			utils.RespondWithError(c, http.StatusTooManyRequests,
				"rate_limit_exceeded",
				"Too many requests. Please try again later.",
				gin.H{
					"retry_after": rl.window,
					"limit":       rl.limit,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}
