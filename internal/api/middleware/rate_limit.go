package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/RogerDodger/gp-kitchen/internal/service"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// RateLimitMiddleware creates middleware that enforces per-IP rate limits
// using Redis. A nil cacheService disables limiting.
func RateLimitMiddleware(cacheService service.CacheService, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cacheService == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)

			allowed, err := cacheService.CheckRateLimit(r.Context(), clientIP, maxRequests, window)
			if err != nil {
				// Fail open when the limiter itself errors.
				utils.Warn("rate limit check failed", "client_ip", clientIP, "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
				w.Header().Set("X-RateLimit-Window", window.String())
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Rate limit exceeded","code":429,"retry_after":"` + window.String() + `"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the real client IP from the request.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
