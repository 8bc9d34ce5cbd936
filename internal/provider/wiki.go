// Package provider implements the client for the real-time prices API.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

const (
	latestPath  = "/latest"
	mappingPath = "/mapping"
	volumesPath = "/volumes"
)

// LatestEntry holds the most recent instant-buy and instant-sell observations
// for one item. Either side may be absent when the item has not traded.
type LatestEntry struct {
	High     *int64
	HighTime *time.Time
	Low      *int64
	LowTime  *time.Time
}

// PriceProvider is the upstream source of prices, volumes, and item metadata.
type PriceProvider interface {
	Latest(ctx context.Context) (map[int]LatestEntry, error)
	Volumes(ctx context.Context) (map[int]int64, error)
	Mapping(ctx context.Context) ([]*domain.Item, error)
}

// WikiClient talks to the prices.runescape.wiki API. The API requires a
// descriptive User-Agent and has no auth.
type WikiClient struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

var _ PriceProvider = (*WikiClient)(nil)

type wikiLatestResp struct {
	Data map[string]struct {
		High     *int64 `json:"high"`
		HighTime *int64 `json:"highTime"`
		Low      *int64 `json:"low"`
		LowTime  *int64 `json:"lowTime"`
	} `json:"data"`
}

type wikiVolumesResp struct {
	Timestamp int64            `json:"timestamp"`
	Data      map[string]int64 `json:"data"`
}

type wikiMappingItem struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Members bool   `json:"members"`
	Limit   int    `json:"limit"`
	Examine string `json:"examine"`
}

// Latest fetches the newest buy/sell observation per item.
func (c *WikiClient) Latest(ctx context.Context) (map[int]LatestEntry, error) {
	var body wikiLatestResp
	if err := c.get(ctx, latestPath, &body); err != nil {
		return nil, err
	}

	result := make(map[int]LatestEntry, len(body.Data))
	for key, entry := range body.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		result[id] = LatestEntry{
			High:     entry.High,
			HighTime: unixTime(entry.HighTime),
			Low:      entry.Low,
			LowTime:  unixTime(entry.LowTime),
		}
	}
	return result, nil
}

// Volumes fetches the 24h trade volume per item.
func (c *WikiClient) Volumes(ctx context.Context) (map[int]int64, error) {
	var body wikiVolumesResp
	if err := c.get(ctx, volumesPath, &body); err != nil {
		return nil, err
	}

	result := make(map[int]int64, len(body.Data))
	for key, volume := range body.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		result[id] = volume
	}
	return result, nil
}

// Mapping fetches the item metadata catalogue.
func (c *WikiClient) Mapping(ctx context.Context) ([]*domain.Item, error) {
	var body []wikiMappingItem
	if err := c.get(ctx, mappingPath, &body); err != nil {
		return nil, err
	}

	items := make([]*domain.Item, 0, len(body))
	for _, entry := range body {
		items = append(items, &domain.Item{
			ID:       entry.ID,
			Name:     entry.Name,
			Members:  entry.Members,
			BuyLimit: entry.Limit,
			Examine:  entry.Examine,
		})
	}
	return items, nil
}

func (c *WikiClient) get(ctx context.Context, path string, dest interface{}) error {
	if c.BaseURL == "" {
		return errors.New("prices api: missing base url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("prices api: create request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("prices api: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("prices api: %s status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("prices api: decode %s response: %w", path, err)
	}
	return nil
}

func unixTime(ts *int64) *time.Time {
	if ts == nil || *ts == 0 {
		return nil
	}
	t := time.Unix(*ts, 0).UTC()
	return &t
}
