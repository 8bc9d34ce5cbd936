package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/provider"
	"github.com/RogerDodger/gp-kitchen/internal/repository"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// priceService implements the PriceService interface.
type priceService struct {
	repos    *repository.Repositories
	provider provider.PriceProvider
	cache    CacheService
	metrics  *utils.MetricsCollector
}

// NewPriceService creates a new price service. cache may be nil, in which
// case lookups always hit the database.
func NewPriceService(repos *repository.Repositories, prov provider.PriceProvider, cache CacheService, metrics *utils.MetricsCollector) PriceService {
	return &priceService{
		repos:    repos,
		provider: prov,
		cache:    cache,
		metrics:  metrics,
	}
}

// SyncPrices fetches current prices and volumes from the upstream API and
// appends them as snapshots. Items without a volume entry get volume 0.
func (s *priceService) SyncPrices(ctx context.Context) (int, error) {
	latest, err := s.provider.Latest(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch latest prices: %w", err)
	}

	volumes, err := s.provider.Volumes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch volumes: %w", err)
	}

	fetchedAt := time.Now()
	snapshots := make([]*domain.PriceSnapshot, 0, len(latest))
	for id, entry := range latest {
		snapshots = append(snapshots, &domain.PriceSnapshot{
			ItemID:    id,
			HighPrice: entry.High,
			HighTime:  entry.HighTime,
			LowPrice:  entry.Low,
			LowTime:   entry.LowTime,
			Volume:    volumes[id],
			FetchedAt: fetchedAt,
		})
	}

	written, err := s.repos.Prices.InsertSnapshots(ctx, snapshots)
	if err != nil {
		return written, fmt.Errorf("failed to store snapshots: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSnapshots(written)
	}

	if s.cache != nil {
		byID := make(map[int]*domain.PriceSnapshot, len(snapshots))
		for _, snapshot := range snapshots {
			byID[snapshot.ItemID] = snapshot
		}
		if err := s.cache.CachePrices(ctx, byID); err != nil {
			utils.Warn("failed to refresh price cache", "error", err.Error())
		}
	}

	return written, nil
}

// SyncMapping refreshes the item catalogue from the upstream API.
func (s *priceService) SyncMapping(ctx context.Context) (int, error) {
	items, err := s.provider.Mapping(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch item mapping: %w", err)
	}

	if err := s.repos.Items.UpsertBatch(ctx, items); err != nil {
		return 0, fmt.Errorf("failed to store item mapping: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SetTrackedItems(len(items))
	}
	return len(items), nil
}

// Search finds items by name prefix.
func (s *priceService) Search(ctx context.Context, query string, limit int) ([]*domain.Item, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	items, err := s.repos.Items.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

// GetItem retrieves an item with its latest price snapshot. The price is
// nil when the item has never been priced.
func (s *priceService) GetItem(ctx context.Context, id int) (*domain.ItemWithPrice, error) {
	item, err := s.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item not found: %w", err)
	}

	prices, err := s.LatestByIDs(ctx, []int{id})
	if err != nil {
		return nil, err
	}

	return &domain.ItemWithPrice{
		Item:  *item,
		Price: prices[id],
	}, nil
}

// LatestByIDs returns the newest snapshot per requested item, served from
// cache where possible. Items with no snapshot at all are absent from the
// result.
func (s *priceService) LatestByIDs(ctx context.Context, ids []int) (map[int]*domain.PriceSnapshot, error) {
	if len(ids) == 0 {
		return map[int]*domain.PriceSnapshot{}, nil
	}

	result := make(map[int]*domain.PriceSnapshot, len(ids))
	missing := ids

	if s.cache != nil {
		found, misses, err := s.cache.GetCachedPrices(ctx, ids)
		if err != nil {
			utils.Warn("price cache read failed, falling back to database", "error", err.Error())
			misses = ids
			found = nil
		}
		for id, snapshot := range found {
			result[id] = snapshot
		}
		missing = misses
	}

	if len(missing) > 0 {
		fromDB, err := s.repos.Prices.LatestByItemIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("failed to load latest prices: %w", err)
		}
		for id, snapshot := range fromDB {
			result[id] = snapshot
		}

		if s.cache != nil && len(fromDB) > 0 {
			if err := s.cache.CachePrices(ctx, fromDB); err != nil {
				utils.Warn("failed to backfill price cache", "error", err.Error())
			}
		}
	}

	return result, nil
}
