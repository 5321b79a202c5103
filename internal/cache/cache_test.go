package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpubook/internal/models"
)

func newTestCache(t *testing.T) (*FeedCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zerolog.New(io.Discard)
	return NewFeedCache(rdb, time.Minute, &logger), mr
}

func TestFeedCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	evs := []models.Event{
		{Title: "GPU 1 is currently used by a@example.com for 2 hours",
			Start: "2024-03-05T08:00:00", End: "2024-03-05T10:00:00", Color: models.GPUColor(1)},
	}

	_, ok := c.GetEvents(ctx, 60)
	assert.False(t, ok)

	c.SetEvents(ctx, 60, evs)

	got, ok := c.GetEvents(ctx, 60)
	require.True(t, ok)
	assert.Equal(t, evs, got)

	// Other nodes have independent keys.
	_, ok = c.GetEvents(ctx, 61)
	assert.False(t, ok)
}

func TestFeedCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.SetEvents(ctx, 60, []models.Event{{Title: "x"}})
	_, ok := c.GetEvents(ctx, 60)
	require.True(t, ok)

	c.Invalidate(ctx, 60)
	_, ok = c.GetEvents(ctx, 60)
	assert.False(t, ok)
}

func TestFeedCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.SetEvents(ctx, 60, []models.Event{{Title: "x"}})
	mr.FastForward(2 * time.Minute)

	_, ok := c.GetEvents(ctx, 60)
	assert.False(t, ok)
}

func TestFeedCacheNilSafe(t *testing.T) {
	ctx := context.Background()

	var c *FeedCache
	_, ok := c.GetEvents(ctx, 60)
	assert.False(t, ok)
	c.SetEvents(ctx, 60, nil)
	c.Invalidate(ctx, 60)

	logger := zerolog.New(io.Discard)
	disabled := NewFeedCache(nil, time.Minute, &logger)
	_, ok = disabled.GetEvents(ctx, 60)
	assert.False(t, ok)
	disabled.SetEvents(ctx, 60, nil)
	disabled.Invalidate(ctx, 60)
}
