package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Init 创建 Redis 客户端并做一次 Ping 健康检查
func Init(ctx context.Context, opt Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opt.Addr,     // 例如 "127.0.0.1:6379"
		Password:     opt.Password, // 无密码则留空
		DB:           opt.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opt.Addr, err)
	}
	return client, nil
}
