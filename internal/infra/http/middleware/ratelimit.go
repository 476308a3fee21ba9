package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter holds one token bucket per client address. Each bucket allows
// limit requests per window, refilled evenly.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	interval  time.Duration
	burst     int
	window    time.Duration
	lastSweep time.Time
	Now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		interval: window / time.Duration(limit),
		burst:    limit,
		window:   window,
		Now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.Now()
	rl.sweep(now)

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(rl.interval), rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep drops visitors idle for a full window, whose buckets have refilled.
// Runs at most once per window. Callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.window {
			delete(rl.visitors, key)
		}
	}
}

// retryAfter is the refill interval of one token, in whole seconds.
func (rl *RateLimiter) retryAfter() int {
	secs := int(math.Ceil(rl.interval.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// Limit rejects requests over the limit with 429. Requests are keyed on the
// connection address; put chi's RealIP in front only behind a trusted proxy.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			writeJSONError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
