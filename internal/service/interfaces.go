// Package service defines interfaces for business logic services.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/pricing"
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	// Register creates a new user account.
	Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserResponse, error)

	// Login authenticates a user and returns tokens.
	Login(ctx context.Context, email, password string) (*LoginResponse, error)

	// RefreshToken generates a new access token from a refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)

	// Guest creates an anonymous guest account and returns tokens for it.
	Guest(ctx context.Context) (*LoginResponse, error)

	// Promote upgrades a guest account to a full account in place,
	// keeping its recipes.
	Promote(ctx context.Context, userID uuid.UUID, req *domain.PromoteRequest) (*domain.UserResponse, error)

	// ValidateToken validates an access token and returns user info.
	ValidateToken(ctx context.Context, token string) (*domain.UserResponse, error)
}

// UserService defines the interface for user management operations.
type UserService interface {
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserResponse, error)

	// List retrieves users with pagination (admin only).
	List(ctx context.Context, limit, offset int) ([]*domain.UserResponse, error)

	// Update updates user information (admin only).
	Update(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.UserResponse, error)

	// Delete deactivates a user account.
	Delete(ctx context.Context, id uuid.UUID) error

	// TouchLastSeen records account activity for guest expiry purposes.
	TouchLastSeen(ctx context.Context, id uuid.UUID) error

	// PurgeStaleGuests removes guest accounts idle longer than ttl.
	// Returns the number of accounts removed.
	PurgeStaleGuests(ctx context.Context, ttl time.Duration) (int, error)
}

// RecipeWithProfit pairs a recipe with its profit breakdown at current prices.
type RecipeWithProfit struct {
	Recipe    *domain.Recipe    `json:"recipe"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// RecipeService defines the interface for recipe operations.
type RecipeService interface {
	// Create adds a recipe owned by the given user.
	Create(ctx context.Context, ownerID uuid.UUID, req *domain.RecipeRequest) (*domain.Recipe, error)

	// GetByID retrieves one of the user's recipes.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Recipe, error)

	// GetWithProfit retrieves one recipe with its profit breakdown.
	GetWithProfit(ctx context.Context, id, ownerID uuid.UUID, mode pricing.Mode) (*RecipeWithProfit, error)

	// ListWithProfit retrieves the user's recipes with profit breakdowns,
	// sorted by the given key (profit, roi, or name).
	ListWithProfit(ctx context.Context, ownerID uuid.UUID, mode pricing.Mode, sortKey string) ([]*RecipeWithProfit, error)

	// Update replaces one of the user's recipes.
	Update(ctx context.Context, id, ownerID uuid.UUID, req *domain.RecipeRequest) (*domain.Recipe, error)

	// Delete removes one of the user's recipes.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// CookbookService defines the interface for curated recipe collections.
type CookbookService interface {
	// List retrieves all cookbooks without their recipe templates.
	List(ctx context.Context) ([]*domain.Cookbook, error)

	// GetByID retrieves a cookbook with its recipe templates.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cookbook, error)

	// Create adds a cookbook (admin only).
	Create(ctx context.Context, createdBy uuid.UUID, req *domain.CookbookRequest) (*domain.Cookbook, error)

	// Update replaces a cookbook (admin only).
	Update(ctx context.Context, id uuid.UUID, req *domain.CookbookRequest) (*domain.Cookbook, error)

	// Delete removes a cookbook (admin only).
	Delete(ctx context.Context, id uuid.UUID) error

	// Import copies a cookbook's recipe templates into the user's own recipes.
	Import(ctx context.Context, cookbookID, userID uuid.UUID) ([]*domain.Recipe, error)
}

// PriceService defines the interface for item and price operations.
type PriceService interface {
	// SyncPrices fetches current prices and volumes from the upstream API
	// and appends them as snapshots. Returns the number written.
	SyncPrices(ctx context.Context) (int, error)

	// SyncMapping refreshes the item catalogue from the upstream API.
	// Returns the number of items upserted.
	SyncMapping(ctx context.Context) (int, error)

	// Search finds items by name prefix.
	Search(ctx context.Context, query string, limit int) ([]*domain.Item, error)

	// GetItem retrieves an item with its latest price snapshot.
	GetItem(ctx context.Context, id int) (*domain.ItemWithPrice, error)

	// LatestByIDs returns the newest snapshot per requested item,
	// served from cache where possible.
	LatestByIDs(ctx context.Context, ids []int) (map[int]*domain.PriceSnapshot, error)
}

// Services aggregates all service interfaces.
type Services struct {
	Auth     AuthService
	User     UserService
	Recipe   RecipeService
	Cookbook CookbookService
	Price    PriceService
	Cache    CacheService
}

// LoginResponse represents the response from login operation.
type LoginResponse struct {
	User         *domain.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int                  `json:"expires_in"`
}

// TokenResponse represents the response from token refresh operation.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
