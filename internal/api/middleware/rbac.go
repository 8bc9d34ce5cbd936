package middleware

import (
	"net/http"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

// RequireRole creates middleware that requires a specific role.
func RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r.Context())
			if !ok {
				writeForbidden(w, "authentication required")
				return
			}

			if claims.Role != requiredRole {
				writeForbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(string(domain.RoleAdmin))(next)
}

// RequireGuest creates middleware that requires a guest account, used for
// the promotion endpoint.
func RequireGuest(next http.Handler) http.Handler {
	return RequireRole(string(domain.RoleGuest))(next)
}

// IsAdmin checks if the current user is an admin.
func IsAdmin(r *http.Request) bool {
	claims, ok := GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == string(domain.RoleAdmin)
}

// writeForbidden writes a 403 Forbidden response.
func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	response := `{"error":"` + message + `","code":403}`
	_, _ = w.Write([]byte(response))
}
