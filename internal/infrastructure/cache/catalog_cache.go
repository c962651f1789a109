package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// CatalogCache keeps a copy of the full catalog so searches do not hit the
// database on every keystroke.
type CatalogCache interface {
	Get(ctx context.Context) ([]entity.CatalogItem, error)
	Set(ctx context.Context, items []entity.CatalogItem) error
	Invalidate(ctx context.Context) error
}

func NewRedisCatalogCache(client *redis.Client, posID string, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{
		client: client,
		key:    fmt.Sprintf("catalog:%s", posID),
		ttl:    ttl,
	}
}

type RedisCatalogCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (r *RedisCatalogCache) Get(ctx context.Context) ([]entity.CatalogItem, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []entity.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return items, nil
}

func (r *RedisCatalogCache) Set(ctx context.Context, items []entity.CatalogItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCatalogCache) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// NoopCatalogCache is used when no redis address is configured.
type NoopCatalogCache struct{}

func (NoopCatalogCache) Get(context.Context) ([]entity.CatalogItem, error) { return nil, ErrCacheMiss }
func (NoopCatalogCache) Set(context.Context, []entity.CatalogItem) error   { return nil }
func (NoopCatalogCache) Invalidate(context.Context) error                  { return nil }
