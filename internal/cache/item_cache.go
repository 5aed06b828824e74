package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ColetaApp/coleta_api/internal/models"
)

// itemCatalogKey is the Redis key holding the serialized item catalog.
const itemCatalogKey = "items:catalog"

// itemCatalogTTL bounds staleness after a reseed; the catalog otherwise only
// changes with a migration.
const itemCatalogTTL = 10 * time.Minute

// ItemCache caches the serialized item catalog. The catalog is seed data and
// small, so a single key with a TTL is enough.
type ItemCache struct {
	redis *RedisClient
}

// NewItemCache creates a new ItemCache.
func NewItemCache(redis *RedisClient) *ItemCache {
	return &ItemCache{redis: redis}
}

// Get returns the cached catalog, or (nil, false) on miss or any Redis error.
func (c *ItemCache) Get(ctx context.Context) ([]models.ItemResponse, bool) {
	raw, err := c.redis.Get(ctx, itemCatalogKey)
	if err != nil {
		// Plain miss or unavailable cache; the DB stays authoritative.
		return nil, false
	}

	var items []models.ItemResponse
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	return items, true
}

// Put stores the serialized catalog. Failures are non-fatal and ignored.
func (c *ItemCache) Put(ctx context.Context, items []models.ItemResponse) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, itemCatalogKey, string(raw), itemCatalogTTL)
}
