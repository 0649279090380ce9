// Package ratelimit is a per-client token bucket guarding the analyze endpoints,
// which fan out into several paid completion calls per request.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	xhttp "StockAdvisor/pkg/http"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter holds one bucket per key. Every bucket shares capacity and refill rate.
type Limiter struct {
	mu         sync.Mutex
	m          map[string]*bucket
	capacity   float64
	refillRate float64 // tokens per second
	now        func() time.Time
}

func New(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		m:          make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillPerSec,
		now:        time.Now,
	}
}

// Allow consumes one token for key. When none is left it reports how long until one is.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.capacity, b.tokens+elapsed*l.refillRate)
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if l.refillRate <= 0 {
		return false, time.Hour
	}
	wait := time.Duration((1 - b.tokens) / l.refillRate * float64(time.Second))
	return false, wait
}

// Sweep drops buckets that have been full for at least idle.
func (l *Limiter) Sweep(idle time.Duration) int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, b := range l.m {
		full := b.tokens+now.Sub(b.last).Seconds()*l.refillRate >= l.capacity
		if full && now.Sub(b.last) >= idle {
			delete(l.m, k)
			n++
		}
	}
	return n
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
// Requests are keyed by client IP.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, wait := l.Allow(c.RealIP())
			if ok {
				return next(c)
			}
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequests("too many analysis requests, retry later", wait))
		}
	}
}
