// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_explorer/internal/feature/symbollist/domain/entity"
	"stock_explorer/internal/feature/symbollist/usecase"
)

// SymbolStore is what the caching decorator wraps: the symbol list reader and its seeder.
type SymbolStore interface {
	usecase.SymbolRepository
	usecase.SymbolSeeder
}

// CachingSymbolRepository decorates a SymbolStore with a Redis read-through cache.
// Only the symbol reference list is cached; price data never passes through here.
type CachingSymbolRepository struct {
	inner     SymbolStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ SymbolStore = (*CachingSymbolRepository)(nil)

// NewCachingSymbolRepository decorates a SymbolStore with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "symbols".
// A nil rdb makes the decorator a pass-through.
func NewCachingSymbolRepository(rdb *redis.Client, ttl time.Duration, inner SymbolStore, namespace string) *CachingSymbolRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "symbols"
	}
	return &CachingSymbolRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListActive returns the active symbols, checking the cache first.
func (c *CachingSymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	if c.rdb == nil {
		return c.inner.ListActive(ctx)
	}

	key := c.activeKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Symbol
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fall back to the database
	out, err := c.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("symbol cache set failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// Upsert writes through to the store and invalidates every cached list in the namespace.
func (c *CachingSymbolRepository) Upsert(ctx context.Context, symbols []entity.Symbol) error {
	if err := c.inner.Upsert(ctx, symbols); err != nil {
		return err
	}
	if c.rdb == nil || len(symbols) == 0 {
		return nil
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		slog.Warn("symbol cache invalidation failed", "namespace", c.namespace, "error", err)
	}
	return nil
}

func (c *CachingSymbolRepository) activeKey() string {
	return c.namespace + ":active"
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSymbolRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
