package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// MetricsMiddleware creates middleware that records HTTP request metrics.
func MetricsMiddleware(metricsCollector *utils.MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			// Skip /healthz and /metrics to avoid self-inflation.
			if r.URL.Path != "/healthz" && r.URL.Path != "/metrics" {
				metricsCollector.RecordHTTPRequest(r.Method, r.URL.Path, rw.statusCode, time.Since(start))
			}
		})
	}
}

// LoggingMiddleware creates middleware that logs HTTP requests with
// structured logging and tags each request with an ID.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		next.ServeHTTP(rw, r.WithContext(ctx))

		duration := time.Since(start)
		utils.Info("http_request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"remote_addr", r.RemoteAddr,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
		)
	})
}

// TracingMiddleware adds the current trace ID to response headers.
func TracingMiddleware(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			span := trace.SpanFromContext(ctx)

			if span != nil {
				traceID := span.SpanContext().TraceID().String()
				if traceID != "" {
					w.Header().Set("X-Trace-ID", traceID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
