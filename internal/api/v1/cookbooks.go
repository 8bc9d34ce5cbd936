package v1

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/api/middleware"
	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

func cookbookID(req *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(req.PathValue("id"))
	return id, err == nil
}

// handleListCookbooks lists all cookbooks. No auth required; cookbooks are
// the browsable catalogue shown to visitors.
func (r *Router) handleListCookbooks(w http.ResponseWriter, req *http.Request) {
	cookbooks, err := r.services.Cookbook.List(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cookbooks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cookbooks": cookbooks})
}

// handleGetCookbook retrieves a cookbook with its recipe templates.
func (r *Router) handleGetCookbook(w http.ResponseWriter, req *http.Request) {
	id, ok := cookbookID(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid cookbook ID")
		return
	}

	cookbook, err := r.services.Cookbook.GetByID(req.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "cookbook not found")
		return
	}

	writeJSON(w, http.StatusOK, cookbook)
}

// handleCreateCookbook creates a cookbook (admin only).
func (r *Router) handleCreateCookbook(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAdmin(middleware.ValidateJSON(
		func(w http.ResponseWriter, req *http.Request, body *domain.CookbookRequest) {
			claims, _ := middleware.GetUserFromContext(req.Context())

			cookbook, err := r.services.Cookbook.Create(req.Context(), claims.UserID, body)
			if err != nil {
				writeError(w, http.StatusBadRequest, "failed to create cookbook")
				return
			}

			writeJSON(w, http.StatusCreated, cookbook)
		}))

	finalHandler.ServeHTTP(w, req)
}

// handleUpdateCookbook replaces a cookbook (admin only).
func (r *Router) handleUpdateCookbook(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAdmin(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id, ok := cookbookID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid cookbook ID")
			return
		}

		handler := middleware.ValidateJSON(func(w http.ResponseWriter, req *http.Request, body *domain.CookbookRequest) {
			cookbook, err := r.services.Cookbook.Update(req.Context(), id, body)
			if err != nil {
				writeError(w, http.StatusNotFound, "cookbook not found")
				return
			}

			writeJSON(w, http.StatusOK, cookbook)
		})

		handler.ServeHTTP(w, req)
	}))

	finalHandler.ServeHTTP(w, req)
}

// handleDeleteCookbook removes a cookbook (admin only).
func (r *Router) handleDeleteCookbook(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAdmin(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id, ok := cookbookID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid cookbook ID")
			return
		}

		if err := r.services.Cookbook.Delete(req.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, "cookbook not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))

	finalHandler.ServeHTTP(w, req)
}

// handleImportCookbook copies a cookbook's templates into the caller's
// recipes. Guests can import too.
func (r *Router) handleImportCookbook(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAuth(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		claims, _ := middleware.GetUserFromContext(req.Context())

		id, ok := cookbookID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid cookbook ID")
			return
		}

		recipes, err := r.services.Cookbook.Import(req.Context(), id, claims.UserID)
		if err != nil {
			writeError(w, http.StatusNotFound, "cookbook not found")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"recipes":  recipes,
			"imported": len(recipes),
		})
	}))

	finalHandler.ServeHTTP(w, req)
}
