package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/api/middleware"
	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

func userID(req *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(req.PathValue("id"))
	return id, err == nil
}

// handleListUsers lists users with pagination (admin only).
func (r *Router) handleListUsers(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAdmin(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		limit := 0
		offset := 0

		if limitStr := req.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, "limit must be non-negative")
				return
			}
			limit = parsed
		}

		if offsetStr := req.URL.Query().Get("offset"); offsetStr != "" {
			parsed, err := strconv.Atoi(offsetStr)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, "offset must be non-negative")
				return
			}
			offset = parsed
		}

		users, err := r.services.User.List(req.Context(), limit, offset)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list users")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"users":  users,
			"limit":  limit,
			"offset": offset,
		})
	}))

	finalHandler.ServeHTTP(w, req)
}

// handleGetUser retrieves a user by ID (admin only).
func (r *Router) handleGetUser(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAdmin(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id, ok := userID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid user ID")
			return
		}

		user, err := r.services.User.GetByID(req.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}))

	finalHandler.ServeHTTP(w, req)
}

// handleUpdateUser updates a user (admin only).
func (r *Router) handleUpdateUser(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAdmin(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id, ok := userID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid user ID")
			return
		}

		handler := middleware.ValidateJSON(func(w http.ResponseWriter, req *http.Request, body *domain.UpdateUserRequest) {
			user, err := r.services.User.Update(req.Context(), id, body)
			if err != nil {
				if strings.Contains(err.Error(), "not found") {
					writeError(w, http.StatusNotFound, "user not found")
					return
				}
				writeError(w, http.StatusBadRequest, "failed to update user")
				return
			}

			writeJSON(w, http.StatusOK, user)
		})

		handler.ServeHTTP(w, req)
	}))

	finalHandler.ServeHTTP(w, req)
}

// handleDeleteUser deactivates a user (admin only).
func (r *Router) handleDeleteUser(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAdmin(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id, ok := userID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid user ID")
			return
		}

		if err := r.services.User.Delete(req.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))

	finalHandler.ServeHTTP(w, req)
}
