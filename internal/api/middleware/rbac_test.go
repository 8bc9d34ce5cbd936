package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/auth"
	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	claims := &auth.Claims{
		UserID:   uuid.New(),
		Username: "testuser",
		Role:     role,
	}
	ctx := context.WithValue(req.Context(), UserContextKey, claims)
	return req.WithContext(ctx)
}

func TestRequireAdmin(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := RequireAdmin(testHandler)

	tests := []struct {
		name           string
		role           string
		hasUser        bool
		expectedStatus int
	}{
		{
			name:           "admin allowed",
			role:           string(domain.RoleAdmin),
			hasUser:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "regular user forbidden",
			role:           string(domain.RoleUser),
			hasUser:        true,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "guest forbidden",
			role:           string(domain.RoleGuest),
			hasUser:        true,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no user forbidden",
			hasUser:        false,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.hasUser {
				req = requestWithRole(tt.role)
			} else {
				req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
			}

			rec := httptest.NewRecorder()
			adminOnly.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestRequireGuest(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guestOnly := RequireGuest(testHandler)

	t.Run("guest allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guestOnly.ServeHTTP(rec, requestWithRole(string(domain.RoleGuest)))
		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})

	t.Run("full user forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guestOnly.ServeHTTP(rec, requestWithRole(string(domain.RoleUser)))
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
		}
	})
}

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(requestWithRole(string(domain.RoleAdmin))) {
		t.Error("expected admin request to report IsAdmin")
	}
	if IsAdmin(requestWithRole(string(domain.RoleUser))) {
		t.Error("expected user request to not report IsAdmin")
	}
}
