package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/smhrd/smartsearch/internal/serverdb"
)

// rateWindow is the span a per-IP auth limit applies to
const rateWindow = time.Minute

// RateLimiter is a sliding-window log limiter: a key may make at most limit
// calls within any window-long span.
type RateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	hits   map[string][]time.Time
}

// NewRateLimiter returns a limiter over rateWindow. Call Run to drop idle keys.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		window: rateWindow,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Run drops idle keys every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.cleanup()
		}
	}
}

// Allow records a call for key and reports whether it is within limit.
// Denied calls are not recorded.
func (rl *RateLimiter) Allow(key string, limit int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.prune(rl.hits[key], now)
	if len(recent) >= limit {
		rl.hits[key] = recent
		return false
	}
	rl.hits[key] = append(recent, now)
	return true
}

// prune drops hits that fell out of the window. hits is in time order.
func (rl *RateLimiter) prune(hits []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for k, hits := range rl.hits {
		if recent := rl.prune(hits, now); len(recent) == 0 {
			delete(rl.hits, k)
		} else {
			rl.hits[k] = recent
		}
	}
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/api/auth/")
}

// limitAuth throttles /api/auth/ per client IP. Throttled requests are
// recorded as rate limit events.
func limitAuth(rl *RateLimiter, limit int, store *serverdb.ServerDB, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || !isAuthPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			ip := clientIP(r)
			if rl.Allow("ip:"+ip, limit) {
				next.ServeHTTP(w, r)
				return
			}
			if err := store.InsertRateLimitEvent(ip, "auth"); err != nil {
				logFor(r.Context()).Error("log rate limit event", "err", err)
			}
			m.RecordRateLimited()
			writeError(w, http.StatusTooManyRequests, ErrCodeRateLimited, "rate limit exceeded")
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop over the socket address
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
