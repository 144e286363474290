package service

import (
	"context"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/metrics"
	"github.com/AizaAsim/CampusConnect/internal/model"

	"go.uber.org/zap"
)

type StatisticsService struct {
	stats StatisticsStore
	users UserStore
	cache OverviewCache // 可为 nil
	log   *zap.Logger
	now   func() time.Time
}

func NewStatisticsService(stats StatisticsStore, users UserStore, cache OverviewCache, log *zap.Logger) *StatisticsService {
	return &StatisticsService{stats: stats, users: users, cache: cache, log: log, now: time.Now}
}

// Overview 先查缓存；缓存出错只记日志，回源数据库
func (s *StatisticsService) Overview(ctx context.Context) (*model.OverviewStatistics, error) {
	if s.cache != nil {
		cached, err := s.cache.GetOverview(ctx)
		if err == nil && cached != nil {
			metrics.RecordCacheLookup(true)
			return cached, nil
		}
		metrics.RecordCacheLookup(false)
	}

	overview, err := s.stats.Overview(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetOverview(ctx, overview); err != nil {
			s.log.Warn("cache overview statistics", zap.Error(err))
		}
	}
	return overview, nil
}

func (s *StatisticsService) User(ctx context.Context, userID uint64) (*model.UserStatistics, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, missing(err, "user with ID %d not found", userID)
	}
	return s.stats.UserStatistics(ctx, user, s.now().UTC())
}

// AdminDashboard 概览加管理员标记，角色由路由中间件把关
func (s *StatisticsService) AdminDashboard(ctx context.Context) (*model.AdminDashboard, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return &model.AdminDashboard{OverviewStatistics: *overview, AdminOnly: true}, nil
}
