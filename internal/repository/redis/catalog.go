package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RechkalovAA/weblarek/internal/domain"
	"github.com/RechkalovAA/weblarek/pkg/database"
	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

// CatalogKey is where the product list is stored.
const CatalogKey = "catalog:products"

type cachedCatalog struct {
	Items   []domain.Product `json:"items"`
	SavedAt time.Time        `json:"saved_at"`
}

// CatalogCache implements repository.CatalogCache using Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a cache whose entry expires after ttl.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached product list.
func (c *CatalogCache) Get(ctx context.Context) ([]domain.Product, error) {
	ctx, end := database.TraceCommand(ctx, "GET", CatalogKey)
	data, err := c.client.Get(ctx, CatalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		end(nil)
		return nil, apperrors.NotFound("catalog", CatalogKey)
	}
	end(err)
	if err != nil {
		return nil, fmt.Errorf("redis get catalog: %w", err)
	}

	var cached cachedCatalog
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if cached.Items == nil {
		cached.Items = []domain.Product{}
	}
	return cached.Items, nil
}

// Save stores items with the configured TTL.
func (c *CatalogCache) Save(ctx context.Context, items []domain.Product) error {
	data, err := json.Marshal(cachedCatalog{Items: items, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	ctx, end := database.TraceCommand(ctx, "SET", CatalogKey)
	err = c.client.Set(ctx, CatalogKey, data, c.ttl).Err()
	end(err)
	if err != nil {
		return fmt.Errorf("redis set catalog: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *CatalogCache) Ping(ctx context.Context) error {
	return database.PingRedis(ctx, c.client)
}
