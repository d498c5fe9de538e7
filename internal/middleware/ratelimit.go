package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

const (
	windowDuration  = 1 * time.Minute
	cleanupInterval = 1 * time.Minute
)

// RateLimiter limits state-changing requests per client IP with a sliding
// window. Safe methods and static paths are never counted.
type RateLimiter struct {
	limit       int
	window      time.Duration
	now         func() time.Time
	requests    map[string][]time.Time // IP -> request timestamps
	mu          sync.RWMutex
	cleanupDone chan struct{}
	closeOnce   sync.Once
	methods     []string
	staticPaths map[string]bool
}

// RateLimitOption configures a RateLimiter.
type RateLimitOption func(*RateLimiter)

// WithMethods sets the request methods that count against the limit.
// Defaults to POST.
func WithMethods(methods ...string) RateLimitOption {
	return func(rl *RateLimiter) {
		rl.methods = methods
	}
}

// WithStaticPaths sets paths that bypass the limiter entirely.
func WithStaticPaths(paths ...string) RateLimitOption {
	return func(rl *RateLimiter) {
		rl.staticPaths = lo.SliceToMap(paths, func(p string) (string, bool) {
			return p, true
		})
	}
}

// WithRateLimitClock sets the time source.
func WithRateLimitClock(now func() time.Time) RateLimitOption {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// NewRateLimiter creates a limiter allowing limit requests per minute per IP.
//
// Close must be called when shutting down to stop the cleanup goroutine.
func NewRateLimiter(limit int, opts ...RateLimitOption) (*RateLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}

	rl := &RateLimiter{
		limit:       limit,
		window:      windowDuration,
		now:         time.Now,
		requests:    make(map[string][]time.Time),
		cleanupDone: make(chan struct{}),
		methods:     []string{http.MethodPost},
		staticPaths: map[string]bool{},
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanupLoop()

	slog.Info("rate limiter initialized",
		"limit", limit,
		"window", rl.window.String(),
		"methods", rl.methods,
	)

	return rl, nil
}

// Middleware wraps next with the limit.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.staticPaths[r.URL.Path] || !slices.Contains(rl.methods, r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ip := ExtractIP(r)
		if ip == "" {
			slog.Warn("failed to extract IP from request", "path", r.URL.Path)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		allowed, oldest := rl.allow(ip)
		if !allowed {
			retryAfter := int((rl.window - rl.now().Sub(oldest)).Seconds())
			retryAfter = max(retryAfter, 1)

			slog.Debug("rate limit exceeded",
				"ip", ip,
				"method", r.Method,
				"path", r.URL.Path,
				"limit", rl.limit,
			)

			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			http.Error(w, "Too many submissions, please wait a minute and try again.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow records a request from ip if it fits in the window. When it does not,
// the oldest timestamp in the window is returned for Retry-After.
func (rl *RateLimiter) allow(ip string) (bool, time.Time) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := filterValidTimestamps(rl.requests[ip], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false, valid[0]
	}

	rl.requests[ip] = append(valid, now)
	return true, time.Time{}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.cleanupDone:
			return
		}
	}
}

// cleanup drops IPs with no requests left in the window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, timestamps := range rl.requests {
		valid := filterValidTimestamps(timestamps, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = valid
		}
	}
}

func filterValidTimestamps(timestamps []time.Time, cutoff time.Time) []time.Time {
	return lo.Filter(timestamps, func(ts time.Time, _ int) bool {
		return ts.After(cutoff)
	})
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.cleanupDone)
	})
}
