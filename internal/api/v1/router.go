// Package v1 provides version 1 of the HTTP API.
package v1

import (
	"net/http"

	"github.com/RogerDodger/gp-kitchen/internal/api/middleware"
	"github.com/RogerDodger/gp-kitchen/internal/auth"
	"github.com/RogerDodger/gp-kitchen/internal/service"
)

// Router holds the dependencies needed for v1 API routes.
type Router struct {
	services   *service.Services
	jwtManager *auth.JWTManager
}

// NewRouter creates a new v1 API router.
func NewRouter(services *service.Services, jwtManager *auth.JWTManager) *Router {
	return &Router{
		services:   services,
		jwtManager: jwtManager,
	}
}

// RegisterRoutes registers all v1 API routes on the provided mux.
func (r *Router) RegisterRoutes(mux *http.ServeMux) {
	// Ping endpoint
	mux.HandleFunc("GET /api/v1/ping", r.handlePing)

	// Auth routes
	mux.HandleFunc("POST /api/v1/auth/register", r.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", r.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh", r.handleRefresh)
	mux.HandleFunc("POST /api/v1/auth/guest", r.handleGuest)
	mux.HandleFunc("POST /api/v1/auth/promote", r.handlePromote)

	// Recipe routes (guests included)
	mux.HandleFunc("GET /api/v1/recipes", r.handleListRecipes)
	mux.HandleFunc("POST /api/v1/recipes", r.handleCreateRecipe)
	mux.HandleFunc("GET /api/v1/recipes/{id}", r.handleGetRecipe)
	mux.HandleFunc("PUT /api/v1/recipes/{id}", r.handleUpdateRecipe)
	mux.HandleFunc("DELETE /api/v1/recipes/{id}", r.handleDeleteRecipe)

	// Cookbook routes (reads public, writes admin only)
	mux.HandleFunc("GET /api/v1/cookbooks", r.handleListCookbooks)
	mux.HandleFunc("GET /api/v1/cookbooks/{id}", r.handleGetCookbook)
	mux.HandleFunc("POST /api/v1/cookbooks", r.handleCreateCookbook)
	mux.HandleFunc("PUT /api/v1/cookbooks/{id}", r.handleUpdateCookbook)
	mux.HandleFunc("DELETE /api/v1/cookbooks/{id}", r.handleDeleteCookbook)
	mux.HandleFunc("POST /api/v1/cookbooks/{id}/import", r.handleImportCookbook)

	// Item and price routes (public)
	mux.HandleFunc("GET /api/v1/items", r.handleSearchItems)
	mux.HandleFunc("GET /api/v1/items/{id}", r.handleGetItem)
	mux.HandleFunc("GET /api/v1/prices/latest", r.handleLatestPrices)

	// User management routes (admin only)
	mux.HandleFunc("GET /api/v1/users", r.handleListUsers)
	mux.HandleFunc("GET /api/v1/users/{id}", r.handleGetUser)
	mux.HandleFunc("PUT /api/v1/users/{id}", r.handleUpdateUser)
	mux.HandleFunc("DELETE /api/v1/users/{id}", r.handleDeleteUser)
}

// handlePing responds to ping requests for testing connectivity.
func (r *Router) handlePing(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

// withAuth chains token validation and activity tracking ahead of next.
func (r *Router) withAuth(next http.Handler) http.Handler {
	authMiddleware := middleware.AuthMiddleware(r.jwtManager)
	activityMiddleware := middleware.ActivityMiddleware(r.services.User)
	return authMiddleware(activityMiddleware(next))
}

// withAdmin is withAuth plus the admin role requirement.
func (r *Router) withAdmin(next http.Handler) http.Handler {
	return r.withAuth(middleware.RequireAdmin(next))
}
