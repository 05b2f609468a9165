package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit returns middleware that allows each client at most maxRequests
// per window, keyed by remote IP. The token bucket holds maxRequests and
// refills at maxRequests/window, so a client that exhausts its allowance
// waits out the window rather than a fixed interval. Limiters for idle
// clients are dropped after an hour so the table cannot grow without bound.
// When pathPrefixes are given, only matching paths are limited.
func RateLimit(maxRequests int, window time.Duration, pathPrefixes ...string) func(http.Handler) http.Handler {
	rl := &rateLimiter{
		limit:   rate.Limit(float64(maxRequests) / window.Seconds()),
		burst:   maxRequests,
		clients: make(map[string]*clientLimiter),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(pathPrefixes) > 0 && !matchesPrefix(r.URL.Path, pathPrefixes) {
				next.ServeHTTP(w, r)
				return
			}
			if !rl.allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"error":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*clientLimiter
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = time.Now()

	if len(rl.clients) > 1000 {
		rl.evictIdle()
	}
	return c.limiter.Allow()
}

func (rl *rateLimiter) evictIdle() {
	cutoff := time.Now().Add(-time.Hour)
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
