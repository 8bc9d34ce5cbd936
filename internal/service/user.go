package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/repository"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// userService implements the UserService interface.
type userService struct {
	repos *repository.Repositories
}

// NewUserService creates a new user service.
func NewUserService(repos *repository.Repositories) UserService {
	return &userService{repos: repos}
}

// GetByID retrieves a user by ID.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserResponse, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	response := user.ToResponse()
	return &response, nil
}

// List retrieves users with pagination.
func (s *userService) List(ctx context.Context, limit, offset int) ([]*domain.UserResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repos.Users.ListPaginated(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*domain.UserResponse, 0, len(users))
	for _, user := range users {
		response := user.ToResponse()
		responses = append(responses, &response)
	}
	return responses, nil
}

// Update updates user information.
func (s *userService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if req.Username != "" {
		existing, err := s.repos.Users.GetByUsername(ctx, req.Username)
		if err == nil && existing != nil && existing.ID != id {
			return nil, fmt.Errorf("username already taken")
		}
		user.Username = req.Username
	}
	if req.Email != "" {
		email := strings.ToLower(req.Email)
		existing, err := s.repos.Users.GetByEmail(ctx, email)
		if err == nil && existing != nil && existing.ID != id {
			return nil, fmt.Errorf("email already registered")
		}
		user.Email = email
	}
	if req.Role != "" {
		user.Role = strings.ToLower(req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	response := user.ToResponse()
	return &response, nil
}

// Delete deactivates a user account.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// TouchLastSeen records account activity for guest expiry purposes.
func (s *userService) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	return s.repos.Users.TouchLastSeen(ctx, id)
}

// PurgeStaleGuests removes guest accounts idle longer than ttl.
func (s *userService) PurgeStaleGuests(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	removed, err := s.repos.Users.DeleteStaleGuests(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale guests: %w", err)
	}

	if removed > 0 {
		utils.Info("purged stale guest accounts",
			"removed", removed,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}
	return removed, nil
}
