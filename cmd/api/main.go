package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/config"
	"github.com/AizaAsim/CampusConnect/internal/middleware"
	"github.com/AizaAsim/CampusConnect/internal/notification"
	"github.com/AizaAsim/CampusConnect/internal/pkg"
	"github.com/AizaAsim/CampusConnect/internal/repository/mysql"
	"github.com/AizaAsim/CampusConnect/internal/repository/redis"
	"github.com/AizaAsim/CampusConnect/internal/router"
	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, CAMPUS_* env vars override)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := pkg.NewLogger(pkg.LogConfig{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mysql.InitDB(cfg.MySQL.DSN, mysql.PoolConfig{
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
	}, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	// 自动建表
	if cfg.MySQL.AutoMigrate {
		if err := mysql.Migrate(db); err != nil {
			return err
		}
	}

	users := mysql.NewUserRepository(db)
	clubs := mysql.NewClubRepository(db)
	members := mysql.NewClubMemberRepository(db)
	events := mysql.NewEventRepository(db)
	attendees := mysql.NewEventAttendeeRepository(db)
	posts := mysql.NewPostRepository(db)
	comments := mysql.NewCommentRepository(db)
	stats := mysql.NewStatisticsRepository(db)
	outbox := mysql.NewOutboxRepository(db)

	// 统计缓存可选，redis 连不上时直接查库
	var cache service.OverviewCache
	if cfg.Redis.Enabled {
		client, err := redis.Init(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			cache = redis.NewStatsCache(client, cfg.Redis.StatsTTL)
		}
	}

	sender := service.LogSender(log.Named("outbox"))
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			return err
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
		log.Info("outbox relay to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", producer.Topic()))
	}
	relayer := service.NewOutboxRelayer(outbox, sender, service.RelayerConfig{
		BatchSize: cfg.Kafka.BatchSize,
		MaxRetry:  cfg.Kafka.MaxRetry,
		Interval:  cfg.Kafka.RelayInterval,
	}, log.Named("outbox"))

	hub := notification.NewHub(log.Named("ws"))
	tokens := pkg.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)

	r := router.InitRouter(router.Deps{
		Auth:          service.NewAuthService(users, tokens, log),
		Users:         service.NewUserService(users, log),
		Clubs:         service.NewClubService(clubs, members, users, hub, log),
		ClubMembers:   service.NewClubMemberService(members, clubs, users, log),
		Events:        service.NewEventService(events, clubs, members, hub, log),
		Attendees:     service.NewEventAttendeeService(attendees, events, users, log),
		Posts:         service.NewPostService(posts, users, log),
		Comments:      service.NewCommentService(comments, posts, hub, log),
		Statistics:    service.NewStatisticsService(stats, users, cache, log),
		Hub:           hub,
		Log:           log,
		CORSOrigins:   cfg.Server.CORSOrigins,
		AuthRateLimit: middleware.NewIPRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		relayer.Run(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	stop()
	wg.Wait()
	return nil
}
