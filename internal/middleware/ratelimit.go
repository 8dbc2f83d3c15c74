package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type ipWindow struct {
	seen    int
	resetAt time.Time
}

// RateLimit caps requests per client IP within a fixed window. Rejections
// carry the service's JSON error shape and a Retry-After hint so callers can
// back off instead of hammering.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		windows = make(map[string]*ipWindow)
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			now := time.Now()
			mu.Lock()
			win, ok := windows[ip]
			if !ok || now.After(win.resetAt) {
				win = &ipWindow{resetAt: now.Add(window)}
				windows[ip] = win
			}
			win.seen++
			over := win.seen > limit
			retryAfter := time.Until(win.resetAt)
			mu.Unlock()

			if over {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the caller's address, trusting the first parseable entry
// of X-Forwarded-For before falling back to the connection peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			ip := strings.TrimSpace(part)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
