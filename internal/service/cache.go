package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
	"github.com/RogerDodger/gp-kitchen/internal/repository"
	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// CacheService defines the interface for caching operations.
type CacheService interface {
	// Price cache operations
	CachePrices(ctx context.Context, snapshots map[int]*domain.PriceSnapshot) error
	GetCachedPrices(ctx context.Context, ids []int) (found map[int]*domain.PriceSnapshot, missing []int, err error)
	InvalidatePrices(ctx context.Context, ids []int) error

	// Rate limiting
	CheckRateLimit(ctx context.Context, clientIP string, maxRequests int, window time.Duration) (bool, error)

	// Health
	Health(ctx context.Context) error
}

// cacheServiceImpl provides caching on top of the Redis client.
type cacheServiceImpl struct {
	redisClient *repository.RedisClient
}

// NewCacheService creates a new cache service.
func NewCacheService(redisClient *repository.RedisClient) CacheService {
	return &cacheServiceImpl{redisClient: redisClient}
}

const (
	priceCachePrefix = "price:latest:"
	priceCacheTTL    = 5 * time.Minute
	rateLimitPrefix  = "ratelimit:"
)

func priceCacheKey(itemID int) string {
	return priceCachePrefix + strconv.Itoa(itemID)
}

// CachePrices stores the latest snapshot per item.
func (c *cacheServiceImpl) CachePrices(ctx context.Context, snapshots map[int]*domain.PriceSnapshot) error {
	for id, snapshot := range snapshots {
		if err := c.redisClient.Set(ctx, priceCacheKey(id), snapshot, priceCacheTTL); err != nil {
			return fmt.Errorf("failed to cache price for item %d: %w", id, err)
		}
	}
	return nil
}

// GetCachedPrices returns the cached snapshots it can find and the IDs it
// cannot, so the caller can fall back to the database for the misses.
func (c *cacheServiceImpl) GetCachedPrices(ctx context.Context, ids []int) (map[int]*domain.PriceSnapshot, []int, error) {
	found := make(map[int]*domain.PriceSnapshot, len(ids))
	var missing []int

	for _, id := range ids {
		var snapshot domain.PriceSnapshot
		err := c.redisClient.Get(ctx, priceCacheKey(id), &snapshot)
		if err != nil {
			if errors.Is(err, repository.ErrCacheMiss) {
				missing = append(missing, id)
				continue
			}
			return nil, nil, fmt.Errorf("failed to read price cache: %w", err)
		}
		found[id] = &snapshot
	}
	return found, missing, nil
}

// InvalidatePrices removes cached snapshots for the given items.
func (c *cacheServiceImpl) InvalidatePrices(ctx context.Context, ids []int) error {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, priceCacheKey(id))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redisClient.Del(ctx, keys...)
}

// CheckRateLimit implements a fixed-window counter per client IP.
// Returns true when the request is allowed.
func (c *cacheServiceImpl) CheckRateLimit(ctx context.Context, clientIP string, maxRequests int, window time.Duration) (bool, error) {
	key := rateLimitPrefix + clientIP

	count, err := c.redisClient.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := c.redisClient.Expire(ctx, key, window); err != nil {
			utils.Warn("failed to set rate limit expiry", "key", key, "error", err.Error())
		}
	}

	return count <= int64(maxRequests), nil
}

// Health checks Redis connectivity.
func (c *cacheServiceImpl) Health(ctx context.Context) error {
	return c.redisClient.Ping(ctx)
}
