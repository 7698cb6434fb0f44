// Package cache provides an optional Redis-backed cache of scrape
// snapshots, so frequent dashboard refreshes do not hammer the upstream
// site. Cache errors degrade to a live scrape, never fail a run.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pwhitehead/lotto-luck/internal/storage"
)

// DefaultTTL bounds how long a cached snapshot is served before a fresh
// scrape is required.
const DefaultTTL = time.Hour

// SnapshotCache stores per-region snapshots in Redis with a TTL.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a SnapshotCache against the given Redis address.
func New(addr string, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func key(region string) string {
	return "scratch:snapshot:" + strings.ToUpper(region)
}

// Get returns the cached snapshot for a region, or (nil, nil) on a miss.
func (c *SnapshotCache) Get(ctx context.Context, region string) (*storage.Snapshot, error) {
	data, err := c.client.Get(ctx, key(region)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached snapshot: %w", err)
	}

	var snap storage.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing cached snapshot: %w", err)
	}
	return &snap, nil
}

// Set stores a region's snapshot with the cache TTL.
func (c *SnapshotCache) Set(ctx context.Context, snap *storage.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key(snap.Region), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching snapshot: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *SnapshotCache) Close() error {
	return c.client.Close()
}
