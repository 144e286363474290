package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"github.com/redis/go-redis/v9"
)

const OverviewKey = "campus:stats:overview"

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// StatsCache 统计概览缓存，过期即失效，不做主动刷新
type StatsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{Client: client, TTL: ttl}
}

func (c *StatsCache) GetOverview(ctx context.Context) (*model.OverviewStatistics, error) {
	raw, err := c.Client.Get(ctx, OverviewKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var s model.OverviewStatistics
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *StatsCache) SetOverview(ctx context.Context, s *model.OverviewStatistics) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, OverviewKey, raw, c.TTL).Err()
}
