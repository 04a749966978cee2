package timelinehttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/squadboard/squadboard/internal/timeline"
)

const cacheVersionKey = "timeline:version"

// Cache stores rendered snapshots in Redis behind a version counter.
// Sprint and closed-day writes bump the version, which orphans every
// previously cached window without scanning for keys.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalidates all cached snapshots.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

func (c *Cache) key(ver int64, fromISO, toISO string) string {
	return fmt.Sprintf("timeline:snapshot:v%d:%s:%s", ver, fromISO, toISO)
}

// Get fetches a cached snapshot for a window, (nil, nil) on miss.
func (c *Cache) Get(ctx context.Context, fromISO, toISO string) (*timeline.Snapshot, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.client.Get(ctx, c.key(ver, fromISO, toISO)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap timeline.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Put stores a snapshot for a window.
func (c *Cache) Put(ctx context.Context, fromISO, toISO string, snap timeline.Snapshot) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(ver, fromISO, toISO), data, c.ttl).Err()
}
