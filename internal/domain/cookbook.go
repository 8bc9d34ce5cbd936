package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CookbookRecipe is a recipe template inside a cookbook. It has no owner;
// importing a cookbook copies these into the importing user's recipes.
type CookbookRecipe struct {
	ID       int64        `json:"id" db:"id"`
	Name     string       `json:"name" db:"name"`
	Notes    string       `json:"notes,omitempty" db:"notes"`
	Inputs   []RecipeLine `json:"inputs"`
	Outputs  []RecipeLine `json:"outputs"`
	Position int          `json:"position" db:"position"`
}

// Cookbook is an admin-curated, shareable collection of recipe templates.
type Cookbook struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description string           `json:"description,omitempty" db:"description"`
	CreatedBy   *uuid.UUID       `json:"created_by,omitempty" db:"created_by"`
	Recipes     []CookbookRecipe `json:"recipes,omitempty"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// CookbookRecipeRequest is one recipe template in a cookbook request.
type CookbookRecipeRequest struct {
	Name    string       `json:"name"`
	Notes   string       `json:"notes,omitempty"`
	Inputs  []RecipeLine `json:"inputs"`
	Outputs []RecipeLine `json:"outputs"`
}

// CookbookRequest represents the data needed to create or replace a cookbook.
type CookbookRequest struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Recipes     []CookbookRecipeRequest `json:"recipes"`
}

// Validate validates the cookbook request.
func (r *CookbookRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name: name is required")
	}
	if len(r.Name) > 100 {
		return fmt.Errorf("name: must be at most 100 characters")
	}
	if len(r.Description) > 2000 {
		return fmt.Errorf("description: must be at most 2000 characters")
	}
	if len(r.Recipes) == 0 {
		return fmt.Errorf("recipes: at least one recipe is required")
	}
	if len(r.Recipes) > 100 {
		return fmt.Errorf("recipes: at most 100 recipes allowed")
	}
	for i, recipe := range r.Recipes {
		rr := RecipeRequest{
			Name:    recipe.Name,
			Notes:   recipe.Notes,
			Inputs:  recipe.Inputs,
			Outputs: recipe.Outputs,
		}
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("recipes[%d]: %w", i, err)
		}
	}
	return nil
}
