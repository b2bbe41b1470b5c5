package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pinforge-backend/internal/data/repos"
	types "github.com/yungbote/pinforge-backend/internal/domain"
)

// Cache stores analyses by exact URL. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, url string, now time.Time) (*types.ContentAnalysis, error)
	Put(ctx context.Context, item *types.ContentAnalysis) error
}

type repoCache struct {
	repo repos.ContentAnalysisRepo
}

func NewRepoCache(repo repos.ContentAnalysisRepo) Cache {
	return &repoCache{repo: repo}
}

func (c *repoCache) Get(ctx context.Context, url string, now time.Time) (*types.ContentAnalysis, error) {
	hit, err := c.repo.GetFresh(ctx, nil, url, now)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	return hit, err
}

func (c *repoCache) Put(ctx context.Context, item *types.ContentAnalysis) error {
	return c.repo.Upsert(ctx, nil, item)
}

type redisCache struct {
	rdb    *goredis.Client
	prefix string
}

func NewRedisCache(rdb *goredis.Client, prefix string) Cache {
	if prefix == "" {
		prefix = "pinforge:content:"
	}
	return &redisCache{rdb: rdb, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, url string, now time.Time) (*types.ContentAnalysis, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+url).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var out types.ContentAnalysis
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode cached analysis: %w", err)
	}
	if out.Expired(now) {
		return nil, nil
	}
	return &out, nil
}

// Put stores item with a TTL equal to its remaining lifetime; already-expired items are skipped.
func (c *redisCache) Put(ctx context.Context, item *types.ContentAnalysis) error {
	if item == nil {
		return nil
	}
	ttl := time.Until(item.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+item.URL, raw, ttl).Err()
}

// MemoryCache is a process-local cache for tests and single-node development.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]types.ContentAnalysis
	Puts  int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: map[string]types.ContentAnalysis{}}
}

func (c *MemoryCache) Get(_ context.Context, url string, now time.Time) (*types.ContentAnalysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[url]
	if !ok || item.Expired(now) {
		return nil, nil
	}
	return &item, nil
}

func (c *MemoryCache) Put(_ context.Context, item *types.ContentAnalysis) error {
	if item == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[item.URL] = *item
	c.Puts++
	return nil
}
