// internal/cache/reorder_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kiranalabs/restock/internal/config"
	"github.com/kiranalabs/restock/internal/domain"
)

const (
	reorderKeyPrefix     = "reorder"
	reorderScanBatchSize = 100
)

// ReorderCache caches the per-store reorder list and its urgency
// summary. Entries are invalidated whenever a new recommendation batch
// supersedes the old one.
type ReorderCache interface {
	GetList(ctx context.Context, storeID string) ([]domain.ReorderItem, bool, error)
	SetList(ctx context.Context, storeID string, items []domain.ReorderItem) error
	GetSummary(ctx context.Context, storeID string) (*domain.ReorderSummary, bool, error)
	SetSummary(ctx context.Context, storeID string, summary *domain.ReorderSummary) error
	Invalidate(ctx context.Context, storeID string) error
	InvalidateAll(ctx context.Context) error
}

type redisReorderCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReorderCache struct{}

// NewReorderCache returns a redis-backed cache when caching is enabled,
// a noop otherwise. The service works identically either way.
func NewReorderCache(cfg config.CacheConfig) (ReorderCache, error) {
	if !cfg.Enabled {
		return &noopReorderCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReorderCache{client: client, ttl: ttl}, nil
}

func NewNoopReorderCache() ReorderCache {
	return &noopReorderCache{}
}

func (c *redisReorderCache) GetList(ctx context.Context, storeID string) ([]domain.ReorderItem, bool, error) {
	payload, err := c.client.Get(ctx, listKey(storeID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var items []domain.ReorderItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("decode reorder list cache: %w", err)
	}
	return items, true, nil
}

func (c *redisReorderCache) SetList(ctx context.Context, storeID string, items []domain.ReorderItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode reorder list cache: %w", err)
	}
	if err := c.client.Set(ctx, listKey(storeID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReorderCache) GetSummary(ctx context.Context, storeID string) (*domain.ReorderSummary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey(storeID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.ReorderSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode reorder summary cache: %w", err)
	}
	return &summary, true, nil
}

func (c *redisReorderCache) SetSummary(ctx context.Context, storeID string, summary *domain.ReorderSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode reorder summary cache: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(storeID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReorderCache) Invalidate(ctx context.Context, storeID string) error {
	return c.client.Del(ctx, listKey(storeID), summaryKey(storeID)).Err()
}

func (c *redisReorderCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reorderKeyPrefix+":", reorderScanBatchSize)
}

func (n *noopReorderCache) GetList(ctx context.Context, storeID string) ([]domain.ReorderItem, bool, error) {
	return nil, false, nil
}

func (n *noopReorderCache) SetList(ctx context.Context, storeID string, items []domain.ReorderItem) error {
	return nil
}

func (n *noopReorderCache) GetSummary(ctx context.Context, storeID string) (*domain.ReorderSummary, bool, error) {
	return nil, false, nil
}

func (n *noopReorderCache) SetSummary(ctx context.Context, storeID string, summary *domain.ReorderSummary) error {
	return nil
}

func (n *noopReorderCache) Invalidate(ctx context.Context, storeID string) error {
	return nil
}

func (n *noopReorderCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func listKey(storeID string) string {
	return fmt.Sprintf("%s:list:%s", reorderKeyPrefix, storeID)
}

func summaryKey(storeID string) string {
	return fmt.Sprintf("%s:summary:%s", reorderKeyPrefix, storeID)
}
