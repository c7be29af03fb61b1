package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place_insights/internal/adapters/observability"
	redisad "place_insights/internal/adapters/redis"
	"place_insights/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGet(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	rating := 4.4
	in := domain.PlaceRecord{ID: "ChIJ-1", Name: "Cafe", Rating: &rating}
	require.NoError(t, c.Set(ctx, "place:cafe", in, 60))
	assert.True(t, mr.Exists("place_insights:place:cafe"))

	var out domain.PlaceRecord
	ok, err := c.Get(ctx, "place:cafe", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	ok, err = c.Get(ctx, "place:other", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_SetMetricOnlyOnSuccess(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	sets := observability.CacheEvents.WithLabelValues("redis", "set")

	before := testutil.ToFloat64(sets)
	require.NoError(t, c.Set(ctx, "k", "v", 60))
	assert.Equal(t, before+1, testutil.ToFloat64(sets))

	mr.Close()
	require.Error(t, c.Set(ctx, "k", "v", 60))
	assert.Equal(t, before+1, testutil.ToFloat64(sets))
}

func TestCache_TTLExpiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10))
	mr.FastForward(11 * time.Second)

	var s string
	ok, err := c.Get(ctx, "k", &s)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_UndecodableIsError(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("place_insights:bad", "not-json"))

	var out domain.PlaceRecord
	ok, err := c.Get(context.Background(), "bad", &out)
	assert.False(t, ok)
	assert.Error(t, err)
}
