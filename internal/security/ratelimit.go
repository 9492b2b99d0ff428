package security

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter allows a fixed number of requests per client in each window
type RateLimiter struct {
	clients map[string]*client
	mu      sync.Mutex
	rate    int           // requests per window
	window  time.Duration // time window
	now     func() time.Time
	ips     *ClientIPResolver
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	remaining   int
	windowStart time.Time
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop.
// Requests are keyed by the address ips resolves. Call Stop to release it.
func NewRateLimiter(rate int, window time.Duration, ips *ClientIPResolver) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		rate:    rate,
		window:  window,
		now:     time.Now,
		ips:     ips,
		stop:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether a request from key fits in its current window
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, exists := rl.clients[key]
	if !exists || now.Sub(c.windowStart) >= rl.window {
		c = &client{remaining: rl.rate, windowStart: now}
		rl.clients[key] = c
	}

	if c.remaining > 0 {
		c.remaining--
		return true
	}
	return false
}

// Middleware rejects requests over the limit with 429 Too Many Requests
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.ips.ClientIP(r)) {
			w.Header().Set("Retry-After", retryAfter(rl.window))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many requests"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup drops clients whose window ended long enough ago
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, c := range rl.clients {
		if now.Sub(c.windowStart) > rl.window*2 {
			delete(rl.clients, key)
		}
	}
}

func retryAfter(window time.Duration) string {
	seconds := int(window.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
