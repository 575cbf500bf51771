// Package middleware provides HTTP middleware for the obralog service.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// maxClients caps the number of tracked IPs so the bucket table cannot
// grow without bound.
const maxClients = 100_000

// RateLimiter applies a per-IP token bucket. Site crews upload photos
// in bursts, so the burst size matters more than the steady rate.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*tokenBucket
	rate    float64
	burst   float64
}

type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter with the given requests per
// second and burst size. A background goroutine evicts idle buckets
// until ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*tokenBucket),
		rate:    float64(ratePerSec),
		burst:   float64(burst),
	}
	go rl.evictLoop(ctx)

	return rl
}

func (rl *RateLimiter) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	const maxIdle = 10 * time.Minute

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.clients {
				if now.Sub(b.lastSeen) > maxIdle {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// allow refills the bucket for elapsed time and takes one token.
func (rl *RateLimiter) allow(ip string) (ok, known bool) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.clients[ip]
	if !exists {
		if len(rl.clients) >= maxClients {
			return false, false
		}

		b = &tokenBucket{tokens: rl.burst, lastSeen: now}
		rl.clients[ip] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, true
	}
	b.tokens--

	return true, true
}

// Handler returns Gin middleware that applies the limiter per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// ClientIP is spoof-safe: the router disables proxy header trust.
		ok, known := rl.allow(c.ClientIP())
		if ok {
			c.Next()

			return
		}

		if !known {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")

			return
		}

		respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
	}
}
