// Package middleware provides HTTP middleware functions.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/RogerDodger/gp-kitchen/internal/auth"
	"github.com/RogerDodger/gp-kitchen/internal/service"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the context key for storing user claims.
	UserContextKey ContextKey = "user"
	// RequestIDContextKey is the context key for the request ID.
	RequestIDContextKey ContextKey = "request_id"
)

// AuthMiddleware creates middleware that validates JWT tokens from the
// Authorization header.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeUnauthorized(w, "invalid authorization header format")
				return
			}

			token := strings.TrimPrefix(authHeader, bearerPrefix)
			if token == "" {
				writeUnauthorized(w, "missing token")
				return
			}

			claims, err := jwtManager.ValidateAccessToken(token)
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActivityMiddleware bumps the authenticated user's last_seen_at. Guest
// accounts are reaped based on that timestamp, so this must run on every
// authenticated route. Failures are logged and ignored.
func ActivityMiddleware(userSvc service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := GetUserFromContext(r.Context()); ok {
				if err := userSvc.TouchLastSeen(r.Context(), claims.UserID); err != nil {
					utils.Warn("failed to record user activity",
						"user_id", claims.UserID,
						"error", err.Error(),
					)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts user claims from request context.
func GetUserFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*auth.Claims)
	return claims, ok
}

// writeUnauthorized writes a 401 Unauthorized response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"error":"` + message + `","code":401}`
	_, _ = w.Write([]byte(response))
}
