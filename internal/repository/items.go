package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

// itemsRepo implements the ItemsRepo interface.
type itemsRepo struct {
	db *pgxpool.Pool
}

// NewItemsRepo creates a new items repository.
func NewItemsRepo(db *pgxpool.Pool) ItemsRepo {
	return &itemsRepo{db: db}
}

// UpsertBatch inserts or updates items from the prices API mapping.
func (r *itemsRepo) UpsertBatch(ctx context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO items (id, name, members, buy_limit, examine, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    members = EXCLUDED.members,
		    buy_limit = EXCLUDED.buy_limit,
		    examine = EXCLUDED.examine,
		    updated_at = EXCLUDED.updated_at`

	now := time.Now()
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.Name, item.Members, item.BuyLimit, item.Examine, now)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert item: %w", err)
		}
	}
	return nil
}

// GetByID retrieves an item by its game ID.
func (r *itemsRepo) GetByID(ctx context.Context, id int) (*domain.Item, error) {
	query := `SELECT id, name, members, buy_limit, examine, updated_at FROM items WHERE id = $1`

	var item domain.Item
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Members, &item.BuyLimit, &item.Examine, &item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("item not found")
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// Search finds items whose name matches the prefix, case-insensitively.
func (r *itemsRepo) Search(ctx context.Context, query string, limit int) ([]*domain.Item, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	sql := `
		SELECT id, name, members, buy_limit, examine, updated_at
		FROM items
		WHERE LOWER(name) LIKE LOWER($1) || '%'
		ORDER BY name
		LIMIT $2`

	rows, err := r.db.Query(ctx, sql, escapeLike(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		var item domain.Item
		err := rows.Scan(&item.ID, &item.Name, &item.Members, &item.BuyLimit, &item.Examine, &item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// escapeLike escapes LIKE metacharacters in user input so that a search
// for "%" or "_" matches those characters literally, keeping true prefix
// semantics.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Count returns the number of known items.
func (r *itemsRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
