package v1

import (
	"net/http"
	"strings"

	"github.com/RogerDodger/gp-kitchen/internal/api/middleware"
	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// handleRegister handles user registration.
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	handler := middleware.ValidateJSON(func(w http.ResponseWriter, req *http.Request, body *domain.CreateUserRequest) {
		user, err := r.services.Auth.Register(req.Context(), body)
		if err != nil {
			switch {
			case strings.Contains(err.Error(), "already registered"),
				strings.Contains(err.Error(), "already taken"):
				writeError(w, http.StatusConflict, err.Error())
			default:
				writeError(w, http.StatusBadRequest, "registration failed")
			}
			return
		}

		writeJSON(w, http.StatusCreated, user)
	})

	handler.ServeHTTP(w, req)
}

// handleLogin handles user login.
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	handler := middleware.ValidateJSON(func(w http.ResponseWriter, req *http.Request, body *domain.LoginRequest) {
		resp, err := r.services.Auth.Login(req.Context(), body.Email, body.Password)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	})

	handler.ServeHTTP(w, req)
}

// handleRefresh exchanges a refresh token for a new access token.
func (r *Router) handleRefresh(w http.ResponseWriter, req *http.Request) {
	handler := middleware.ValidateJSON(func(w http.ResponseWriter, req *http.Request, body *domain.RefreshRequest) {
		resp, err := r.services.Auth.RefreshToken(req.Context(), body.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	})

	handler.ServeHTTP(w, req)
}

// handleGuest creates an anonymous guest account. No body is required; the
// response carries the tokens that are the only way back into the account.
func (r *Router) handleGuest(w http.ResponseWriter, req *http.Request) {
	resp, err := r.services.Auth.Guest(req.Context())
	if err != nil {
		utils.Error("failed to create guest account", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to create guest account")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// handlePromote upgrades the calling guest to a full account.
func (r *Router) handlePromote(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAuth(middleware.RequireGuest(middleware.ValidateJSON(
		func(w http.ResponseWriter, req *http.Request, body *domain.PromoteRequest) {
			claims, _ := middleware.GetUserFromContext(req.Context())

			user, err := r.services.Auth.Promote(req.Context(), claims.UserID, body)
			if err != nil {
				switch {
				case strings.Contains(err.Error(), "already registered"),
					strings.Contains(err.Error(), "already taken"):
					writeError(w, http.StatusConflict, err.Error())
				case strings.Contains(err.Error(), "not a guest"):
					writeError(w, http.StatusConflict, "account is not a guest")
				default:
					writeError(w, http.StatusBadRequest, "promotion failed")
				}
				return
			}

			writeJSON(w, http.StatusOK, user)
		})))

	finalHandler.ServeHTTP(w, req)
}
