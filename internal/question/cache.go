package question

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 10 * time.Minute
	cachePrefix     = "quizbank:"
	modulesKey      = cachePrefix + "modules"
)

// ModuleCache caches module listings. Getters return nil on a miss.
type ModuleCache interface {
	GetModules(ctx context.Context) ([]ModuleSummary, error)
	SetModules(ctx context.Context, modules []ModuleSummary) error
	GetModule(ctx context.Context, module string) ([]Question, error)
	SetModule(ctx context.Context, module string, qs []Question) error
	Invalidate(ctx context.Context) error
}

// Cache is the Redis-backed ModuleCache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ModuleCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func moduleKey(module string) string {
	return cachePrefix + "module:" + module
}

func (c *Cache) GetModules(ctx context.Context) ([]ModuleSummary, error) {
	var out []ModuleSummary
	if err := c.get(ctx, modulesKey, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Cache) SetModules(ctx context.Context, modules []ModuleSummary) error {
	return c.set(ctx, modulesKey, modules)
}

func (c *Cache) GetModule(ctx context.Context, module string) ([]Question, error) {
	var out []Question
	if err := c.get(ctx, moduleKey(module), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Cache) SetModule(ctx context.Context, module string, qs []Question) error {
	return c.set(ctx, moduleKey(module), qs)
}

// Invalidate drops every cached listing.
func (c *Cache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dst)
}

func (c *Cache) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

type nopCache struct{}

func (nopCache) GetModules(context.Context) ([]ModuleSummary, error) { return nil, nil }
func (nopCache) SetModules(context.Context, []ModuleSummary) error { return nil }
func (nopCache) GetModule(context.Context, string) ([]Question, error) { return nil, nil }
func (nopCache) SetModule(context.Context, string, []Question) error { return nil }
func (nopCache) Invalidate(context.Context) error { return nil }
