package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/repository"
)

// In-memory repositories for exercising services without a database.

type fakeUsersRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUsersRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.IsActive = true
	user.LastSeenAt = now
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok || !user.IsActive {
		return nil, fmt.Errorf("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email != "" && user.Email == email && user.IsActive {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUsersRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username && user.IsActive {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUsersRepo) Update(_ context.Context, user *domain.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	user.UpdatedAt = time.Now()
	user.CreatedAt = stored.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUsersRepo) Delete(_ context.Context, id uuid.UUID) error {
	user, ok := r.users[id]
	if !ok || !user.IsActive {
		return fmt.Errorf("user not found or already inactive")
	}
	user.IsActive = false
	return nil
}

func (r *fakeUsersRepo) ListPaginated(_ context.Context, limit, offset int) ([]*domain.User, error) {
	var users []*domain.User
	for _, user := range r.users {
		if user.IsActive {
			copied := *user
			users = append(users, &copied)
		}
	}
	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

func (r *fakeUsersRepo) Count(_ context.Context) (int, error) {
	count := 0
	for _, user := range r.users {
		if user.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeUsersRepo) TouchLastSeen(_ context.Context, id uuid.UUID) error {
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	user.LastSeenAt = time.Now()
	return nil
}

func (r *fakeUsersRepo) DeleteStaleGuests(_ context.Context, cutoff time.Time) (int, error) {
	removed := 0
	for id, user := range r.users {
		if user.Role == string(domain.RoleGuest) && user.LastSeenAt.Before(cutoff) {
			delete(r.users, id)
			removed++
		}
	}
	return removed, nil
}

type fakeItemsRepo struct {
	items map[int]*domain.Item
}

func newFakeItemsRepo() *fakeItemsRepo {
	return &fakeItemsRepo{items: make(map[int]*domain.Item)}
}

func (r *fakeItemsRepo) UpsertBatch(_ context.Context, items []*domain.Item) error {
	for _, item := range items {
		copied := *item
		copied.UpdatedAt = time.Now()
		r.items[item.ID] = &copied
	}
	return nil
}

func (r *fakeItemsRepo) GetByID(_ context.Context, id int) (*domain.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("item not found")
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemsRepo) Search(_ context.Context, query string, limit int) ([]*domain.Item, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var items []*domain.Item
	for _, item := range r.items {
		if strings.HasPrefix(strings.ToLower(item.Name), strings.ToLower(query)) {
			copied := *item
			items = append(items, &copied)
			if len(items) == limit {
				break
			}
		}
	}
	return items, nil
}

func (r *fakeItemsRepo) Count(_ context.Context) (int, error) {
	return len(r.items), nil
}

type fakePricesRepo struct {
	latest map[int]*domain.PriceSnapshot
}

func newFakePricesRepo() *fakePricesRepo {
	return &fakePricesRepo{latest: make(map[int]*domain.PriceSnapshot)}
}

func (r *fakePricesRepo) InsertSnapshots(_ context.Context, snapshots []*domain.PriceSnapshot) (int, error) {
	for _, snapshot := range snapshots {
		copied := *snapshot
		r.latest[snapshot.ItemID] = &copied
	}
	return len(snapshots), nil
}

func (r *fakePricesRepo) LatestByItemIDs(_ context.Context, ids []int) (map[int]*domain.PriceSnapshot, error) {
	result := make(map[int]*domain.PriceSnapshot)
	for _, id := range ids {
		if snapshot, ok := r.latest[id]; ok {
			copied := *snapshot
			result[id] = &copied
		}
	}
	return result, nil
}

func (r *fakePricesRepo) LatestFor(_ context.Context, itemID int) (*domain.PriceSnapshot, error) {
	snapshot, ok := r.latest[itemID]
	if !ok {
		return nil, nil
	}
	copied := *snapshot
	return &copied, nil
}

type fakeRecipesRepo struct {
	recipes map[uuid.UUID]*domain.Recipe
}

func newFakeRecipesRepo() *fakeRecipesRepo {
	return &fakeRecipesRepo{recipes: make(map[uuid.UUID]*domain.Recipe)}
}

func (r *fakeRecipesRepo) Create(_ context.Context, recipe *domain.Recipe) error {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	copied := *recipe
	r.recipes[recipe.ID] = &copied
	return nil
}

func (r *fakeRecipesRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Recipe, error) {
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe not found")
	}
	copied := *recipe
	return &copied, nil
}

func (r *fakeRecipesRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Recipe, error) {
	var recipes []*domain.Recipe
	for _, recipe := range r.recipes {
		if recipe.OwnerID == ownerID {
			copied := *recipe
			recipes = append(recipes, &copied)
		}
	}
	return recipes, nil
}

func (r *fakeRecipesRepo) Update(_ context.Context, recipe *domain.Recipe) error {
	stored, ok := r.recipes[recipe.ID]
	if !ok || stored.OwnerID != recipe.OwnerID {
		return fmt.Errorf("recipe not found")
	}
	recipe.CreatedAt = stored.CreatedAt
	recipe.UpdatedAt = time.Now()
	copied := *recipe
	r.recipes[recipe.ID] = &copied
	return nil
}

func (r *fakeRecipesRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	stored, ok := r.recipes[id]
	if !ok || stored.OwnerID != ownerID {
		return fmt.Errorf("recipe not found")
	}
	delete(r.recipes, id)
	return nil
}

type fakeCookbooksRepo struct {
	cookbooks map[uuid.UUID]*domain.Cookbook
}

func newFakeCookbooksRepo() *fakeCookbooksRepo {
	return &fakeCookbooksRepo{cookbooks: make(map[uuid.UUID]*domain.Cookbook)}
}

func (r *fakeCookbooksRepo) Create(_ context.Context, cookbook *domain.Cookbook) error {
	if cookbook.ID == uuid.Nil {
		cookbook.ID = uuid.New()
	}
	now := time.Now()
	cookbook.CreatedAt = now
	cookbook.UpdatedAt = now
	copied := *cookbook
	r.cookbooks[cookbook.ID] = &copied
	return nil
}

func (r *fakeCookbooksRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Cookbook, error) {
	cookbook, ok := r.cookbooks[id]
	if !ok {
		return nil, fmt.Errorf("cookbook not found")
	}
	copied := *cookbook
	return &copied, nil
}

func (r *fakeCookbooksRepo) List(_ context.Context) ([]*domain.Cookbook, error) {
	var cookbooks []*domain.Cookbook
	for _, cookbook := range r.cookbooks {
		copied := *cookbook
		copied.Recipes = nil
		cookbooks = append(cookbooks, &copied)
	}
	return cookbooks, nil
}

func (r *fakeCookbooksRepo) Update(_ context.Context, cookbook *domain.Cookbook) error {
	stored, ok := r.cookbooks[cookbook.ID]
	if !ok {
		return fmt.Errorf("cookbook not found")
	}
	cookbook.CreatedAt = stored.CreatedAt
	cookbook.UpdatedAt = time.Now()
	copied := *cookbook
	r.cookbooks[cookbook.ID] = &copied
	return nil
}

func (r *fakeCookbooksRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.cookbooks[id]; !ok {
		return fmt.Errorf("cookbook not found")
	}
	delete(r.cookbooks, id)
	return nil
}

func newFakeRepositories() *repository.Repositories {
	return &repository.Repositories{
		Users:     newFakeUsersRepo(),
		Items:     newFakeItemsRepo(),
		Prices:    newFakePricesRepo(),
		Recipes:   newFakeRecipesRepo(),
		Cookbooks: newFakeCookbooksRepo(),
	}
}
