// Package repository defines interfaces for data access.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

// UsersRepo defines the interface for user data operations.
type UsersRepo interface {
	// Create creates a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *domain.User) error

	// Delete soft-deletes a user by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListPaginated retrieves users with pagination.
	ListPaginated(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)

	// TouchLastSeen bumps a user's last_seen_at to now.
	TouchLastSeen(ctx context.Context, id uuid.UUID) error

	// DeleteStaleGuests hard-deletes guest accounts not seen since the cutoff,
	// cascading to their recipes. Returns the number of rows removed.
	DeleteStaleGuests(ctx context.Context, cutoff time.Time) (int, error)
}

// ItemsRepo defines the interface for item mapping data.
type ItemsRepo interface {
	// UpsertBatch inserts or updates items from the prices API mapping.
	UpsertBatch(ctx context.Context, items []*domain.Item) error

	// GetByID retrieves an item by its game ID.
	GetByID(ctx context.Context, id int) (*domain.Item, error)

	// Search finds items whose name matches the prefix, case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]*domain.Item, error)

	// Count returns the number of known items.
	Count(ctx context.Context) (int, error)
}

// PricesRepo defines the interface for price snapshot data.
type PricesRepo interface {
	// InsertSnapshots appends a batch of price snapshots.
	InsertSnapshots(ctx context.Context, snapshots []*domain.PriceSnapshot) (int, error)

	// LatestByItemIDs returns the newest snapshot per requested item.
	// Items with no snapshot are absent from the result map.
	LatestByItemIDs(ctx context.Context, ids []int) (map[int]*domain.PriceSnapshot, error)

	// LatestFor returns the newest snapshot for one item, or nil if none.
	LatestFor(ctx context.Context, itemID int) (*domain.PriceSnapshot, error)
}

// RecipesRepo defines the interface for recipe data operations.
type RecipesRepo interface {
	// Create inserts a recipe and its lines atomically.
	Create(ctx context.Context, recipe *domain.Recipe) error

	// GetByID retrieves a recipe with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)

	// ListByOwner retrieves all recipes (with lines) owned by a user.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Recipe, error)

	// Update replaces a recipe's fields and lines atomically.
	Update(ctx context.Context, recipe *domain.Recipe) error

	// Delete removes a recipe owned by the given user.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// CookbooksRepo defines the interface for cookbook data operations.
type CookbooksRepo interface {
	// Create inserts a cookbook with its recipe templates atomically.
	Create(ctx context.Context, cookbook *domain.Cookbook) error

	// GetByID retrieves a cookbook with its recipe templates.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cookbook, error)

	// List retrieves all cookbooks without their recipe templates.
	List(ctx context.Context) ([]*domain.Cookbook, error)

	// Update replaces a cookbook's metadata and recipe templates atomically.
	Update(ctx context.Context, cookbook *domain.Cookbook) error

	// Delete removes a cookbook.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories aggregates all repository interfaces.
type Repositories struct {
	Users     UsersRepo
	Items     ItemsRepo
	Prices    PricesRepo
	Recipes   RecipesRepo
	Cookbooks CookbooksRepo
}

// NewRepositories wires all pgx-backed repositories against one pool.
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Users:     NewUsersRepo(db.Pool),
		Items:     NewItemsRepo(db.Pool),
		Prices:    NewPricesRepo(db.Pool),
		Recipes:   NewRecipesRepo(db.Pool),
		Cookbooks: NewCookbooksRepo(db.Pool),
	}
}
