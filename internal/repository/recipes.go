package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

// recipesRepo implements the RecipesRepo interface.
type recipesRepo struct {
	db *pgxpool.Pool
}

// NewRecipesRepo creates a new recipes repository.
func NewRecipesRepo(db *pgxpool.Pool) RecipesRepo {
	return &recipesRepo{db: db}
}

// Create inserts a recipe and its lines atomically.
func (r *recipesRepo) Create(ctx context.Context, recipe *domain.Recipe) error {
	now := time.Now()
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO recipes (id, owner_id, name, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		recipe.ID, recipe.OwnerID, recipe.Name, recipe.Notes, recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	if err := insertRecipeLines(ctx, tx, recipe.ID, recipe.Inputs, recipe.Outputs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}
	return nil
}

// GetByID retrieves a recipe with its lines.
func (r *recipesRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	query := `
		SELECT id, owner_id, name, notes, created_at, updated_at
		FROM recipes
		WHERE id = $1`

	var recipe domain.Recipe
	err := r.db.QueryRow(ctx, query, id).Scan(
		&recipe.ID, &recipe.OwnerID, &recipe.Name, &recipe.Notes, &recipe.CreatedAt, &recipe.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("recipe not found")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	lines, err := r.loadLines(ctx, []uuid.UUID{recipe.ID})
	if err != nil {
		return nil, err
	}
	recipe.Inputs = lines[recipe.ID].inputs
	recipe.Outputs = lines[recipe.ID].outputs
	return &recipe, nil
}

// ListByOwner retrieves all recipes (with lines) owned by a user.
func (r *recipesRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Recipe, error) {
	query := `
		SELECT id, owner_id, name, notes, created_at, updated_at
		FROM recipes
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	var ids []uuid.UUID
	for rows.Next() {
		var recipe domain.Recipe
		err := rows.Scan(&recipe.ID, &recipe.OwnerID, &recipe.Name, &recipe.Notes, &recipe.CreatedAt, &recipe.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, &recipe)
		ids = append(ids, recipe.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, recipe := range recipes {
		recipe.Inputs = lines[recipe.ID].inputs
		recipe.Outputs = lines[recipe.ID].outputs
	}
	return recipes, nil
}

// Update replaces a recipe's fields and lines atomically. The owner check is
// part of the UPDATE so users cannot touch other users' recipes.
func (r *recipesRepo) Update(ctx context.Context, recipe *domain.Recipe) error {
	recipe.UpdatedAt = time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE recipes
		SET name = $3, notes = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2`,
		recipe.ID, recipe.OwnerID, recipe.Name, recipe.Notes, recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("recipe not found")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_lines WHERE recipe_id = $1`, recipe.ID); err != nil {
		return fmt.Errorf("failed to clear recipe lines: %w", err)
	}
	if err := insertRecipeLines(ctx, tx, recipe.ID, recipe.Inputs, recipe.Outputs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}
	return nil
}

// Delete removes a recipe owned by the given user.
func (r *recipesRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("recipe not found")
	}
	return nil
}

type recipeLines struct {
	inputs  []domain.RecipeLine
	outputs []domain.RecipeLine
}

// loadLines fetches lines for a set of recipes in one query.
func (r *recipesRepo) loadLines(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]recipeLines, error) {
	result := make(map[uuid.UUID]recipeLines, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT recipe_id, side, item_id, quantity
		FROM recipe_lines
		WHERE recipe_id = ANY($1)
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID uuid.UUID
		var side string
		var line domain.RecipeLine
		if err := rows.Scan(&recipeID, &side, &line.ItemID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan recipe line: %w", err)
		}
		entry := result[recipeID]
		if side == "input" {
			entry.inputs = append(entry.inputs, line)
		} else {
			entry.outputs = append(entry.outputs, line)
		}
		result[recipeID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe lines: %w", err)
	}
	return result, nil
}

// insertRecipeLines writes both sides of a recipe within the caller's tx.
func insertRecipeLines(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, inputs, outputs []domain.RecipeLine) error {
	query := `INSERT INTO recipe_lines (recipe_id, side, item_id, quantity) VALUES ($1, $2, $3, $4)`

	for _, line := range inputs {
		if _, err := tx.Exec(ctx, query, recipeID, "input", line.ItemID, line.Quantity); err != nil {
			return fmt.Errorf("failed to insert input line: %w", err)
		}
	}
	for _, line := range outputs {
		if _, err := tx.Exec(ctx, query, recipeID, "output", line.ItemID, line.Quantity); err != nil {
			return fmt.Errorf("failed to insert output line: %w", err)
		}
	}
	return nil
}
