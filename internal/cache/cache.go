package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"gpubook/internal/models"
)

// FeedCache keeps rendered calendar feeds in Redis, keyed per node. A nil
// client or zero TTL disables caching; every operation degrades to a miss
// or a no-op, so an unavailable Redis never fails a request.
type FeedCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewFeedCache constructs a cache over the given client.
func NewFeedCache(rdb *redis.Client, ttl time.Duration, logger *zerolog.Logger) *FeedCache {
	return &FeedCache{rdb: rdb, ttl: ttl, logger: logger}
}

func feedKey(node int) string {
	return fmt.Sprintf("feed:node:%d", node)
}

// GetEvents returns the cached feed for a node, if present.
func (c *FeedCache) GetEvents(ctx context.Context, node int) ([]models.Event, bool) {
	if c == nil || c.rdb == nil || c.ttl <= 0 {
		return nil, false
	}

	val, err := c.rdb.Get(ctx, feedKey(node)).Result()
	if err != nil {
		return nil, false
	}

	var evs []models.Event
	if err := json.Unmarshal([]byte(val), &evs); err != nil {
		c.logger.Warn().Err(err).Int("node", node).Msg("corrupt feed cache entry")
		return nil, false
	}
	return evs, true
}

// SetEvents stores the feed for a node with the configured TTL.
func (c *FeedCache) SetEvents(ctx context.Context, node int, evs []models.Event) {
	if c == nil || c.rdb == nil || c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(evs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, feedKey(node), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Int("node", node).Msg("feed cache write failed")
	}
}

// Invalidate drops the cached feed for a node after a commit or cancel.
func (c *FeedCache) Invalidate(ctx context.Context, node int) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, feedKey(node)).Err(); err != nil {
		c.logger.Warn().Err(err).Int("node", node).Msg("feed cache invalidation failed")
	}
}
