package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

// pricesRepo implements the PricesRepo interface.
type pricesRepo struct {
	db *pgxpool.Pool
}

// NewPricesRepo creates a new prices repository.
func NewPricesRepo(db *pgxpool.Pool) PricesRepo {
	return &pricesRepo{db: db}
}

// InsertSnapshots appends a batch of price snapshots. Snapshots referencing
// unknown items are skipped rather than failing the batch.
func (r *pricesRepo) InsertSnapshots(ctx context.Context, snapshots []*domain.PriceSnapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO price_snapshots (item_id, high_price, high_time, low_price, low_time, volume, fetched_at)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE EXISTS (SELECT 1 FROM items WHERE id = $1)`

	now := time.Now()
	batch := &pgx.Batch{}
	for _, s := range snapshots {
		fetchedAt := s.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = now
		}
		batch.Queue(query, s.ItemID, s.HighPrice, s.HighTime, s.LowPrice, s.LowTime, s.Volume, fetchedAt)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range snapshots {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("failed to insert snapshot: %w", err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

// LatestByItemIDs returns the newest snapshot per requested item.
func (r *pricesRepo) LatestByItemIDs(ctx context.Context, ids []int) (map[int]*domain.PriceSnapshot, error) {
	if len(ids) == 0 {
		return map[int]*domain.PriceSnapshot{}, nil
	}

	query := `
		SELECT DISTINCT ON (item_id)
		       item_id, high_price, high_time, low_price, low_time, volume, fetched_at
		FROM price_snapshots
		WHERE item_id = ANY($1)
		ORDER BY item_id, fetched_at DESC`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest prices: %w", err)
	}
	defer rows.Close()

	result := make(map[int]*domain.PriceSnapshot, len(ids))
	for rows.Next() {
		var s domain.PriceSnapshot
		err := rows.Scan(&s.ItemID, &s.HighPrice, &s.HighTime, &s.LowPrice, &s.LowTime, &s.Volume, &s.FetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		result[s.ItemID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return result, nil
}

// LatestFor returns the newest snapshot for one item, or nil if none exists.
func (r *pricesRepo) LatestFor(ctx context.Context, itemID int) (*domain.PriceSnapshot, error) {
	query := `
		SELECT item_id, high_price, high_time, low_price, low_time, volume, fetched_at
		FROM price_snapshots
		WHERE item_id = $1
		ORDER BY fetched_at DESC
		LIMIT 1`

	var s domain.PriceSnapshot
	err := r.db.QueryRow(ctx, query, itemID).Scan(
		&s.ItemID, &s.HighPrice, &s.HighTime, &s.LowPrice, &s.LowTime, &s.Volume, &s.FetchedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest price: %w", err)
	}
	return &s, nil
}
