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

// cookbooksRepo implements the CookbooksRepo interface.
type cookbooksRepo struct {
	db *pgxpool.Pool
}

// NewCookbooksRepo creates a new cookbooks repository.
func NewCookbooksRepo(db *pgxpool.Pool) CookbooksRepo {
	return &cookbooksRepo{db: db}
}

// Create inserts a cookbook with its recipe templates atomically.
func (r *cookbooksRepo) Create(ctx context.Context, cookbook *domain.Cookbook) error {
	now := time.Now()
	if cookbook.ID == uuid.Nil {
		cookbook.ID = uuid.New()
	}
	cookbook.CreatedAt = now
	cookbook.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO cookbooks (id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		cookbook.ID, cookbook.Name, cookbook.Description, cookbook.CreatedBy, cookbook.CreatedAt, cookbook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cookbook: %w", err)
	}

	if err := insertCookbookRecipes(ctx, tx, cookbook.ID, cookbook.Recipes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cookbook: %w", err)
	}
	return nil
}

// GetByID retrieves a cookbook with its recipe templates.
func (r *cookbooksRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cookbook, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM cookbooks
		WHERE id = $1`

	var cookbook domain.Cookbook
	err := r.db.QueryRow(ctx, query, id).Scan(
		&cookbook.ID, &cookbook.Name, &cookbook.Description, &cookbook.CreatedBy,
		&cookbook.CreatedAt, &cookbook.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("cookbook not found")
		}
		return nil, fmt.Errorf("failed to get cookbook: %w", err)
	}

	recipes, err := r.loadRecipes(ctx, cookbook.ID)
	if err != nil {
		return nil, err
	}
	cookbook.Recipes = recipes
	return &cookbook, nil
}

// List retrieves all cookbooks without their recipe templates.
func (r *cookbooksRepo) List(ctx context.Context) ([]*domain.Cookbook, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM cookbooks
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cookbooks: %w", err)
	}
	defer rows.Close()

	var cookbooks []*domain.Cookbook
	for rows.Next() {
		var cookbook domain.Cookbook
		err := rows.Scan(
			&cookbook.ID, &cookbook.Name, &cookbook.Description, &cookbook.CreatedBy,
			&cookbook.CreatedAt, &cookbook.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cookbook: %w", err)
		}
		cookbooks = append(cookbooks, &cookbook)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookbooks: %w", err)
	}
	return cookbooks, nil
}

// Update replaces a cookbook's metadata and recipe templates atomically.
func (r *cookbooksRepo) Update(ctx context.Context, cookbook *domain.Cookbook) error {
	cookbook.UpdatedAt = time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE cookbooks
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1`,
		cookbook.ID, cookbook.Name, cookbook.Description, cookbook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update cookbook: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cookbook not found")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cookbook_recipes WHERE cookbook_id = $1`, cookbook.ID); err != nil {
		return fmt.Errorf("failed to clear cookbook recipes: %w", err)
	}
	if err := insertCookbookRecipes(ctx, tx, cookbook.ID, cookbook.Recipes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cookbook: %w", err)
	}
	return nil
}

// Delete removes a cookbook.
func (r *cookbooksRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cookbooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cookbook: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cookbook not found")
	}
	return nil
}

// loadRecipes fetches a cookbook's recipe templates with their lines.
func (r *cookbooksRepo) loadRecipes(ctx context.Context, cookbookID uuid.UUID) ([]domain.CookbookRecipe, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, notes, position
		FROM cookbook_recipes
		WHERE cookbook_id = $1
		ORDER BY position, id`, cookbookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cookbook recipes: %w", err)
	}
	defer rows.Close()

	var recipes []domain.CookbookRecipe
	byID := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var recipe domain.CookbookRecipe
		if err := rows.Scan(&recipe.ID, &recipe.Name, &recipe.Notes, &recipe.Position); err != nil {
			return nil, fmt.Errorf("failed to scan cookbook recipe: %w", err)
		}
		byID[recipe.ID] = len(recipes)
		ids = append(ids, recipe.ID)
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookbook recipes: %w", err)
	}
	if len(recipes) == 0 {
		return recipes, nil
	}

	lineRows, err := r.db.Query(ctx, `
		SELECT cookbook_recipe_id, side, item_id, quantity
		FROM cookbook_recipe_lines
		WHERE cookbook_recipe_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cookbook recipe lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var recipeID int64
		var side string
		var line domain.RecipeLine
		if err := lineRows.Scan(&recipeID, &side, &line.ItemID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cookbook recipe line: %w", err)
		}
		idx, ok := byID[recipeID]
		if !ok {
			continue
		}
		if side == "input" {
			recipes[idx].Inputs = append(recipes[idx].Inputs, line)
		} else {
			recipes[idx].Outputs = append(recipes[idx].Outputs, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookbook recipe lines: %w", err)
	}
	return recipes, nil
}

// insertCookbookRecipes writes a cookbook's recipe templates within the caller's tx.
func insertCookbookRecipes(ctx context.Context, tx pgx.Tx, cookbookID uuid.UUID, recipes []domain.CookbookRecipe) error {
	lineQuery := `INSERT INTO cookbook_recipe_lines (cookbook_recipe_id, side, item_id, quantity) VALUES ($1, $2, $3, $4)`

	for i, recipe := range recipes {
		var recipeID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO cookbook_recipes (cookbook_id, name, notes, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			cookbookID, recipe.Name, recipe.Notes, i,
		).Scan(&recipeID)
		if err != nil {
			return fmt.Errorf("failed to insert cookbook recipe: %w", err)
		}

		for _, line := range recipe.Inputs {
			if _, err := tx.Exec(ctx, lineQuery, recipeID, "input", line.ItemID, line.Quantity); err != nil {
				return fmt.Errorf("failed to insert cookbook input line: %w", err)
			}
		}
		for _, line := range recipe.Outputs {
			if _, err := tx.Exec(ctx, lineQuery, recipeID, "output", line.ItemID, line.Quantity); err != nil {
				return fmt.Errorf("failed to insert cookbook output line: %w", err)
			}
		}
	}
	return nil
}
