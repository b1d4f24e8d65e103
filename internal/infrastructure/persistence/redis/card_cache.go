package redis

import (
	"context"
	"strings"
	"time"

	"github.com/codecard-hub/codecard-backend/internal/domain/player"
)

// CardCache caches assembled profile cards keyed by platform and handle.
// A stale card still reflects a real profile, so serving one for up to
// the configured TTL is preferable to hammering the upstream APIs.
type CardCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewCardCache creates a new CardCache. A zero ttl falls back to TTLCard.
func NewCardCache(cache *Cache, ttl time.Duration) *CardCache {
	if ttl <= 0 {
		ttl = TTLCard
	}
	return &CardCache{
		cache: cache,
		ttl:   ttl,
	}
}

// CardKey builds the cache key for a profile card.
// Handles are case-insensitive on all three platforms, so the key is
// lowercased to avoid duplicate entries.
func CardKey(platform player.Platform, handle string) string {
	return PrefixCard + strings.ToLower(string(platform)) + ":" + strings.ToLower(handle)
}

// UserCountKey is the cache key for the aggregate tracked-handle count.
const UserCountKey = PrefixStats + "user_count"

// GetCard loads a cached card into dest.
// Returns ErrCacheMiss when no card is cached for the handle.
func (c *CardCache) GetCard(ctx context.Context, platform player.Platform, handle string, dest interface{}) error {
	return c.cache.Get(ctx, CardKey(platform, handle), dest)
}

// SetCard stores an assembled card.
func (c *CardCache) SetCard(ctx context.Context, platform player.Platform, handle string, card interface{}) error {
	return c.cache.Set(ctx, CardKey(platform, handle), card, c.ttl)
}

// InvalidateCard drops the cached card for a handle.
func (c *CardCache) InvalidateCard(ctx context.Context, platform player.Platform, handle string) error {
	return c.cache.Delete(ctx, CardKey(platform, handle))
}

// GetUserCount returns the cached aggregate user count.
// Returns ErrCacheMiss when not cached.
func (c *CardCache) GetUserCount(ctx context.Context) (int, error) {
	var count int
	if err := c.cache.Get(ctx, UserCountKey, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// SetUserCount caches the aggregate user count. The count changes on
// every first-time lookup, so the TTL is deliberately short.
func (c *CardCache) SetUserCount(ctx context.Context, count int) error {
	return c.cache.Set(ctx, UserCountKey, count, TTLUserCount)
}
