package http

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const defaultWriteLimit = 60

// rateLimiter throttles mutating requests per client IP over a fixed
// window. Reads are never limited: dashboard polling is the dominant
// traffic and the gateway already authenticated the caller.
type rateLimiter struct {
	limit   int
	window  time.Duration
	metrics *securityMetrics

	mu      sync.Mutex
	buckets map[string]*requestWindow

	done chan struct{}
	once sync.Once
}

type requestWindow struct {
	start time.Time
	count int
}

func newRateLimiter(limit int, window time.Duration, metrics *securityMetrics) *rateLimiter {
	if limit <= 0 {
		limit = defaultWriteLimit
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &rateLimiter{
		limit:   limit,
		window:  window,
		metrics: metrics,
		buckets: make(map[string]*requestWindow),
		done:    make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// allow reports whether the request may proceed. GET and HEAD always
// pass; writes share a per-IP budget of limit requests per window.
func (rl *rateLimiter) allow(method, clientIP string) bool {
	if method == http.MethodGet || method == http.MethodHead {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[clientIP]
	if !ok || now.Sub(b.start) >= rl.window {
		rl.buckets[clientIP] = &requestWindow{start: now, count: 1}
		return true
	}

	b.count++
	if b.count > rl.limit {
		if rl.metrics != nil {
			atomic.AddInt64(&rl.metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}

// janitor drops buckets whose window expired long ago, so one-off
// clients do not accumulate forever.
func (rl *rateLimiter) janitor() {
	ticker := time.NewTicker(5 * rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * rl.window)
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if b.start.Before(cutoff) {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}
