package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
)

// Init 初始化 Redis 客户端并 Ping 一次做健康检查。
// addr 为空表示不启用缓存，所有缓存读写自动退化为 miss。
func Init(addr, password string, db int) error {
	if addr == "" {
		return nil
	}
	Client = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return Client.Ping(ctx).Err()
}

// Close 程序退出时调用
func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
