package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/repository"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// cookbookService implements the CookbookService interface.
type cookbookService struct {
	repos *repository.Repositories
}

// NewCookbookService creates a new cookbook service.
func NewCookbookService(repos *repository.Repositories) CookbookService {
	return &cookbookService{repos: repos}
}

// List retrieves all cookbooks without their recipe templates.
func (s *cookbookService) List(ctx context.Context) ([]*domain.Cookbook, error) {
	cookbooks, err := s.repos.Cookbooks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cookbooks: %w", err)
	}
	return cookbooks, nil
}

// GetByID retrieves a cookbook with its recipe templates.
func (s *cookbookService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cookbook, error) {
	cookbook, err := s.repos.Cookbooks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cookbook not found: %w", err)
	}
	return cookbook, nil
}

// Create adds a cookbook.
func (s *cookbookService) Create(ctx context.Context, createdBy uuid.UUID, req *domain.CookbookRequest) (*domain.Cookbook, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cookbook := &domain.Cookbook{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   &createdBy,
		Recipes:     templatesFromRequest(req.Recipes),
	}

	if err := s.repos.Cookbooks.Create(ctx, cookbook); err != nil {
		return nil, fmt.Errorf("failed to create cookbook: %w", err)
	}
	return cookbook, nil
}

// Update replaces a cookbook's metadata and recipe templates.
func (s *cookbookService) Update(ctx context.Context, id uuid.UUID, req *domain.CookbookRequest) (*domain.Cookbook, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.repos.Cookbooks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cookbook not found: %w", err)
	}

	cookbook := &domain.Cookbook{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   existing.CreatedBy,
		Recipes:     templatesFromRequest(req.Recipes),
	}

	if err := s.repos.Cookbooks.Update(ctx, cookbook); err != nil {
		return nil, fmt.Errorf("failed to update cookbook: %w", err)
	}
	return cookbook, nil
}

// Delete removes a cookbook.
func (s *cookbookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Cookbooks.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete cookbook: %w", err)
	}
	return nil
}

// Import copies a cookbook's recipe templates into the user's own recipes.
// Each template becomes an independent recipe the user can edit or delete.
func (s *cookbookService) Import(ctx context.Context, cookbookID, userID uuid.UUID) ([]*domain.Recipe, error) {
	cookbook, err := s.repos.Cookbooks.GetByID(ctx, cookbookID)
	if err != nil {
		return nil, fmt.Errorf("cookbook not found: %w", err)
	}

	imported := make([]*domain.Recipe, 0, len(cookbook.Recipes))
	for _, template := range cookbook.Recipes {
		recipe := &domain.Recipe{
			OwnerID: userID,
			Name:    template.Name,
			Notes:   template.Notes,
			Inputs:  template.Inputs,
			Outputs: template.Outputs,
		}
		if err := s.repos.Recipes.Create(ctx, recipe); err != nil {
			return nil, fmt.Errorf("failed to import recipe %q: %w", template.Name, err)
		}
		imported = append(imported, recipe)
	}

	utils.Info("imported cookbook",
		"cookbook_id", cookbookID,
		"user_id", userID,
		"recipes", len(imported),
	)
	return imported, nil
}

func templatesFromRequest(reqs []domain.CookbookRecipeRequest) []domain.CookbookRecipe {
	recipes := make([]domain.CookbookRecipe, 0, len(reqs))
	for i, req := range reqs {
		recipes = append(recipes, domain.CookbookRecipe{
			Name:     req.Name,
			Notes:    req.Notes,
			Inputs:   req.Inputs,
			Outputs:  req.Outputs,
			Position: i,
		})
	}
	return recipes
}
