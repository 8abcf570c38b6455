package scanguard

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "kiosk:scan:"

// RedisGuard shares the guard between kiosk agents using one Redis.
type RedisGuard struct {
	client *redis.Client
	window time.Duration
}

func NewRedisGuard(client *redis.Client, window time.Duration) RedisGuard {
	return RedisGuard{
		client: client,
		window: window,
	}
}

func (g RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, 1, g.window).Result()
	if err != nil {
		return false, fmt.Errorf("redis.SetNX: %w", err)
	}

	return ok, nil
}

func (g RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis.Del: %w", err)
	}

	return nil
}

// MemoryGuard is the single-process guard.
type MemoryGuard struct {
	cache  *cache.Cache
	window time.Duration
}

func NewMemoryGuard(window time.Duration) MemoryGuard {
	return MemoryGuard{
		cache:  cache.New(window, 2*window),
		window: window,
	}
}

func (g MemoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	return g.cache.Add(key, struct{}{}, g.window) == nil, nil
}

func (g MemoryGuard) Release(_ context.Context, key string) error {
	g.cache.Delete(key)
	return nil
}
