package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
)

// SnapshotCache holds the single most recent published snapshot so a
// separate process can read current state without holding a spectator
// WebSocket open. The referee's own GET /state is served from the
// scheduler, not from this cache. It is not a replay log: only the
// latest snapshot is ever kept.
type SnapshotCache struct {
	client *redis.Client
}

const snapshotCacheKey = "generals:latest_snapshot"

// NewSnapshotCache connects to addr, or returns an inert cache if addr
// is empty.
func NewSnapshotCache(ctx context.Context, addr string) (*SnapshotCache, error) {
	if addr == "" {
		return &SnapshotCache{}, nil
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Println("store: connected snapshot cache to Redis")
	return &SnapshotCache{client: client}, nil
}

// Set stores snap as the latest snapshot. A nil-client cache is a
// silent no-op.
func (c *SnapshotCache) Set(ctx context.Context, snap board.Snapshot) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(snap.ToWire())
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotCacheKey, data, time.Hour).Err()
}

// Get returns the most recently cached snapshot wire form, or
// (nil, false) if nothing has been cached yet or the cache is inert.
func (c *SnapshotCache) Get(ctx context.Context) (*board.StateWire, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, snapshotCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var wire board.StateWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, false
	}
	return &wire, true
}

// IsConnected reports whether this cache actually talks to Redis.
func (c *SnapshotCache) IsConnected() bool {
	return c.client != nil
}

// Close releases the client, if any.
func (c *SnapshotCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
