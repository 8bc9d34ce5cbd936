package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/pricing"
	"github.com/RogerDodger/gp-kitchen/internal/repository"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// recipeService implements the RecipeService interface.
type recipeService struct {
	repos    *repository.Repositories
	priceSvc PriceService
	metrics  *utils.MetricsCollector
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(repos *repository.Repositories, priceSvc PriceService, metrics *utils.MetricsCollector) RecipeService {
	return &recipeService{
		repos:    repos,
		priceSvc: priceSvc,
		metrics:  metrics,
	}
}

// Create adds a recipe owned by the given user.
func (s *recipeService) Create(ctx context.Context, ownerID uuid.UUID, req *domain.RecipeRequest) (*domain.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	recipe := &domain.Recipe{
		OwnerID: ownerID,
		Name:    req.Name,
		Notes:   req.Notes,
		Inputs:  req.Inputs,
		Outputs: req.Outputs,
	}

	if err := s.repos.Recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// GetByID retrieves one of the user's recipes.
func (s *recipeService) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Recipe, error) {
	recipe, err := s.repos.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recipe not found: %w", err)
	}
	if recipe.OwnerID != ownerID {
		return nil, fmt.Errorf("recipe not found")
	}
	return recipe, nil
}

// GetWithProfit retrieves one recipe with its profit breakdown.
func (s *recipeService) GetWithProfit(ctx context.Context, id, ownerID uuid.UUID, mode pricing.Mode) (*RecipeWithProfit, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid pricing mode: %s", mode)
	}

	recipe, err := s.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quotesFor(ctx, []*domain.Recipe{recipe})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordProfitQuery(string(mode))
	}

	return &RecipeWithProfit{
		Recipe:    recipe,
		Breakdown: pricing.Compute(mode, recipe.Inputs, recipe.Outputs, quotes),
	}, nil
}

// ListWithProfit retrieves the user's recipes with profit breakdowns,
// sorted by the given key.
func (s *recipeService) ListWithProfit(ctx context.Context, ownerID uuid.UUID, mode pricing.Mode, sortKey string) ([]*RecipeWithProfit, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid pricing mode: %s", mode)
	}

	recipes, err := s.repos.Recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	quotes, err := s.quotesFor(ctx, recipes)
	if err != nil {
		return nil, err
	}

	result := make([]*RecipeWithProfit, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, &RecipeWithProfit{
			Recipe:    recipe,
			Breakdown: pricing.Compute(mode, recipe.Inputs, recipe.Outputs, quotes),
		})
	}

	if err := sortRecipes(result, sortKey); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordProfitQuery(string(mode))
	}
	return result, nil
}

// Update replaces one of the user's recipes.
func (s *recipeService) Update(ctx context.Context, id, ownerID uuid.UUID, req *domain.RecipeRequest) (*domain.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	recipe := &domain.Recipe{
		ID:      id,
		OwnerID: ownerID,
		Name:    req.Name,
		Notes:   req.Notes,
		Inputs:  req.Inputs,
		Outputs: req.Outputs,
	}

	if err := s.repos.Recipes.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

// Delete removes one of the user's recipes.
func (s *recipeService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.repos.Recipes.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// quotesFor collects the latest prices for every item referenced by the
// given recipes in one lookup.
func (s *recipeService) quotesFor(ctx context.Context, recipes []*domain.Recipe) (map[int]pricing.Quote, error) {
	seen := make(map[int]struct{})
	var ids []int
	for _, recipe := range recipes {
		for _, line := range append(recipe.Inputs, recipe.Outputs...) {
			if _, ok := seen[line.ItemID]; ok {
				continue
			}
			seen[line.ItemID] = struct{}{}
			ids = append(ids, line.ItemID)
		}
	}

	snapshots, err := s.priceSvc.LatestByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	quotes := make(map[int]pricing.Quote, len(snapshots))
	for id, snapshot := range snapshots {
		quotes[id] = pricing.Quote{High: snapshot.HighPrice, Low: snapshot.LowPrice}
	}
	return quotes, nil
}

// sortRecipes orders breakdowns by the requested key. Recipes with missing
// prices sort after fully priced ones regardless of key.
func sortRecipes(recipes []*RecipeWithProfit, sortKey string) error {
	switch sortKey {
	case "", "profit":
		sort.SliceStable(recipes, func(i, j int) bool {
			if recipes[i].Breakdown.Complete != recipes[j].Breakdown.Complete {
				return recipes[i].Breakdown.Complete
			}
			return recipes[i].Breakdown.Profit > recipes[j].Breakdown.Profit
		})
	case "roi":
		sort.SliceStable(recipes, func(i, j int) bool {
			if recipes[i].Breakdown.Complete != recipes[j].Breakdown.Complete {
				return recipes[i].Breakdown.Complete
			}
			return recipes[i].Breakdown.ROI > recipes[j].Breakdown.ROI
		})
	case "name":
		sort.SliceStable(recipes, func(i, j int) bool {
			return strings.ToLower(recipes[i].Recipe.Name) < strings.ToLower(recipes[j].Recipe.Name)
		})
	default:
		return fmt.Errorf("invalid sort key: %s", sortKey)
	}
	return nil
}
