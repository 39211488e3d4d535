package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStatsCache(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	c := NewRedisStatsCache(client, time.Hour)
	ctx := context.Background()

	words := Key{ResourceID: "r1", Metric: MetricWordCount}
	percentFr := Key{ResourceID: "r1", Metric: MetricTranslatedPercent, Language: "fr"}
	other := Key{ResourceID: "r2", Metric: MetricWordCount}

	_, ok, err := c.GetInt(ctx, words)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetInt(ctx, words, 42))
	require.NoError(t, c.SetInt(ctx, percentFr, 50))
	require.NoError(t, c.SetInt(ctx, other, 7))

	value, ok, err := c.GetInt(ctx, percentFr)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 50, value)
	assert.Greater(t, server.TTL(statsKey("r1")), time.Duration(0))

	require.NoError(t, c.InvalidateResource(ctx, "r1"))

	_, ok, err = c.GetInt(ctx, words)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = c.GetInt(ctx, percentFr)
	require.NoError(t, err)
	assert.False(t, ok)

	value, ok, err = c.GetInt(ctx, other)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, value)
}

func TestRedisStatsCache_SetIntAtRefusesAfterInvalidation(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	c := NewRedisStatsCache(client, time.Hour)
	ctx := context.Background()
	key := Key{ResourceID: "r1", Metric: MetricTranslatedPercent, Language: "fr"}

	generation, err := c.Generation(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), generation)

	written, err := c.SetIntAt(ctx, key, 10, generation)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Greater(t, server.TTL(statsKey("r1")), time.Duration(0))

	// a reader that started before this invalidation must not write back
	require.NoError(t, c.InvalidateResource(ctx, "r1"))

	written, err = c.SetIntAt(ctx, key, 0, generation)
	require.NoError(t, err)
	assert.False(t, written)

	_, ok, err := c.GetInt(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	current, err := c.Generation(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), current)

	written, err = c.SetIntAt(ctx, key, 100, current)
	require.NoError(t, err)
	assert.True(t, written)

	value, ok, err := c.GetInt(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 100, value)
}

func TestRedisStatsCache_SetIntAtWithoutTTL(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	c := NewRedisStatsCache(client, 0)
	ctx := context.Background()

	written, err := c.SetIntAt(ctx, Key{ResourceID: "r1", Metric: MetricWordCount}, 3, 0)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, time.Duration(0), server.TTL(statsKey("r1")))
}
