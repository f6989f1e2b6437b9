package ratelimit

import (
	"context"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/backend-checkout/internal/common"
)

// Store decides whether another event for key fits within max events per window.
type Store interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error)
}

// Config describes how to derive a rate limit key and thresholds.
type Config struct {
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// KeyByClientIP buckets requests per client address under prefix. It reads
// RemoteAddr, which chi's RealIP middleware has already resolved from the
// forwarding headers.
func KeyByClientIP(prefix string) func(*http.Request) string {
	return func(r *http.Request) string {
		return prefix + clientAddr(r.RemoteAddr)
	}
}

// clientAddr strips the port and normalises IPv4-mapped IPv6 addresses so a
// client reaching a dual-stack listener shares one bucket.
func clientAddr(remote string) string {
	remote = strings.TrimSpace(remote)
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if addr, err := netip.ParseAddr(remote); err == nil {
		return addr.Unmap().String()
	}
	return remote
}

// Handler enforces rate limits before delegating to the next handler.
// Store failures are reported through OnError and the request is let through.
type Handler struct {
	Limiter Store
	Config  Config
	OnError func(error)
}

// Middleware answers 429 RATE_LIMITED once a client exceeds Config.Max
// requests per Config.Window. A Handler without a store or key is a no-op.
func (h Handler) Middleware(next http.Handler) http.Handler {
	if h.Limiter == nil || h.Config.Key == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, resetAt, err := h.Limiter.Allow(r.Context(), h.Config.Key(r), h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(max(h.Config.Max, 0)))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		wait := retryAfter(time.Until(resetAt))
		headers.Set("Retry-After", strconv.Itoa(wait))
		common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded",
			map[string]any{"limit": h.Config.Max, "retryAfter": wait})
	})
}

// retryAfter rounds d up to whole seconds, never below one.
func retryAfter(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}
