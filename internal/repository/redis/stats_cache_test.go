package redis

import (
	"context"
	"testing"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStatsCache(client, ttl), mr
}

func TestStatsCache_MissThenHit(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	_, err := cache.GetOverview(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	in := &model.OverviewStatistics{
		TotalUsers:        3,
		TotalClubs:        2,
		UpcomingEvents:    1,
		EventsPerCategory: []model.CategoryCount{{Category: "Arts", Count: 2}, {Category: "Sports", Count: 1}},
	}
	require.NoError(t, cache.SetOverview(ctx, in))
	assert.Equal(t, 30*time.Second, mr.TTL(OverviewKey))

	got, err := cache.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestStatsCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, cache.SetOverview(ctx, &model.OverviewStatistics{TotalPosts: 5}))
	mr.FastForward(2 * time.Second)

	_, err := cache.GetOverview(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestStatsCache_CorruptPayload(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(OverviewKey, "not json"))

	_, err := cache.GetOverview(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestStatsCache_ServerDown(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, err := cache.GetOverview(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestInit(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Init(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = Init(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}
