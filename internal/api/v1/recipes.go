package v1

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/api/middleware"
	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/pricing"
)

// pricingMode reads the ?mode query parameter, defaulting to patient.
func pricingMode(req *http.Request) (pricing.Mode, bool) {
	modeStr := req.URL.Query().Get("mode")
	if modeStr == "" {
		return pricing.ModePatient, true
	}
	mode := pricing.Mode(modeStr)
	return mode, mode.Valid()
}

// recipeID parses the {id} path segment.
func recipeID(req *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(req.PathValue("id"))
	return id, err == nil
}

// handleListRecipes lists the caller's recipes with profit breakdowns.
// Query: ?mode=instant|patient (default patient), ?sort=profit|roi|name
// (default profit).
func (r *Router) handleListRecipes(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAuth(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		claims, _ := middleware.GetUserFromContext(req.Context())

		mode, ok := pricingMode(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "mode must be 'instant' or 'patient'")
			return
		}

		recipes, err := r.services.Recipe.ListWithProfit(req.Context(), claims.UserID, mode, req.URL.Query().Get("sort"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"recipes": recipes,
			"mode":    mode,
		})
	}))

	finalHandler.ServeHTTP(w, req)
}

// handleCreateRecipe creates a recipe for the caller.
func (r *Router) handleCreateRecipe(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAuth(middleware.ValidateJSON(
		func(w http.ResponseWriter, req *http.Request, body *domain.RecipeRequest) {
			claims, _ := middleware.GetUserFromContext(req.Context())

			recipe, err := r.services.Recipe.Create(req.Context(), claims.UserID, body)
			if err != nil {
				writeError(w, http.StatusBadRequest, "failed to create recipe")
				return
			}

			writeJSON(w, http.StatusCreated, recipe)
		}))

	finalHandler.ServeHTTP(w, req)
}

// handleGetRecipe retrieves one recipe with its profit breakdown.
func (r *Router) handleGetRecipe(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAuth(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		claims, _ := middleware.GetUserFromContext(req.Context())

		id, ok := recipeID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid recipe ID")
			return
		}

		mode, ok := pricingMode(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "mode must be 'instant' or 'patient'")
			return
		}

		recipe, err := r.services.Recipe.GetWithProfit(req.Context(), id, claims.UserID, mode)
		if err != nil {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}

		writeJSON(w, http.StatusOK, recipe)
	}))

	finalHandler.ServeHTTP(w, req)
}

// handleUpdateRecipe replaces one of the caller's recipes.
func (r *Router) handleUpdateRecipe(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAuth(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		claims, _ := middleware.GetUserFromContext(req.Context())

		id, ok := recipeID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid recipe ID")
			return
		}

		handler := middleware.ValidateJSON(func(w http.ResponseWriter, req *http.Request, body *domain.RecipeRequest) {
			recipe, err := r.services.Recipe.Update(req.Context(), id, claims.UserID, body)
			if err != nil {
				writeError(w, http.StatusNotFound, "recipe not found")
				return
			}

			writeJSON(w, http.StatusOK, recipe)
		})

		handler.ServeHTTP(w, req)
	}))

	finalHandler.ServeHTTP(w, req)
}

// handleDeleteRecipe removes one of the caller's recipes.
func (r *Router) handleDeleteRecipe(w http.ResponseWriter, req *http.Request) {
	finalHandler := r.withAuth(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		claims, _ := middleware.GetUserFromContext(req.Context())

		id, ok := recipeID(req)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid recipe ID")
			return
		}

		if err := r.services.Recipe.Delete(req.Context(), id, claims.UserID); err != nil {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))

	finalHandler.ServeHTTP(w, req)
}
