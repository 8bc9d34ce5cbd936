package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxLineQuantity bounds the quantity of a single recipe line. The GE
// itself cannot hold more than a max cash stack of any item, and the bound
// keeps line totals comfortably inside int64 arithmetic.
const MaxLineQuantity = math.MaxInt32

// RecipeLine is one input or output of a recipe: an item and how many of it
// one conversion consumes or produces.
type RecipeLine struct {
	ItemID   int   `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

// Recipe defines an item conversion owned by a user: inputs are bought on
// the GE, outputs sold.
type Recipe struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	OwnerID   uuid.UUID    `json:"owner_id" db:"owner_id"`
	Name      string       `json:"name" db:"name"`
	Notes     string       `json:"notes,omitempty" db:"notes"`
	Inputs    []RecipeLine `json:"inputs"`
	Outputs   []RecipeLine `json:"outputs"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// RecipeRequest represents the data needed to create or replace a recipe.
type RecipeRequest struct {
	Name    string       `json:"name"`
	Notes   string       `json:"notes,omitempty"`
	Inputs  []RecipeLine `json:"inputs"`
	Outputs []RecipeLine `json:"outputs"`
}

// Validate validates the recipe request.
func (r *RecipeRequest) Validate() error {
	if err := validateRecipeName(r.Name); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	if len(r.Notes) > 2000 {
		return fmt.Errorf("notes: must be at most 2000 characters")
	}
	if err := validateLines("inputs", r.Inputs); err != nil {
		return err
	}
	if err := validateLines("outputs", r.Outputs); err != nil {
		return err
	}
	return nil
}

func validateRecipeName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("name must be at most 100 characters")
	}
	return nil
}

func validateLines(field string, lines []RecipeLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%s: at least one line is required", field)
	}
	if len(lines) > 50 {
		return fmt.Errorf("%s: at most 50 lines allowed", field)
	}
	seen := make(map[int]bool, len(lines))
	for i, line := range lines {
		if line.ItemID <= 0 {
			return fmt.Errorf("%s[%d]: item_id must be positive", field, i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%s[%d]: quantity must be positive", field, i)
		}
		if line.Quantity > MaxLineQuantity {
			return fmt.Errorf("%s[%d]: quantity must be at most %d", field, i, MaxLineQuantity)
		}
		if seen[line.ItemID] {
			return fmt.Errorf("%s[%d]: duplicate item %d", field, i, line.ItemID)
		}
		seen[line.ItemID] = true
	}
	return nil
}
