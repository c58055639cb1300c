package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PendingCountKey = "jobs:application:pendingcount"
	PendingCountTTL = 30 * time.Second
)

// CountCacheRepository 待审报名数的读缓存：写后删 Key，读侧惰性回填。
// 只缓存全量（admin/匿名）计数；scheduler 按 crew 过滤的计数直接回源。
type CountCacheRepository struct{}

func NewCountCacheRepository() *CountCacheRepository {
	return &CountCacheRepository{}
}

// GetPendingCount 第二个返回值表示是否命中；未启用 redis 时恒为 miss
func (c *CountCacheRepository) GetPendingCount(ctx context.Context) (int, bool, error) {
	if Client == nil {
		return 0, false, nil
	}
	val, err := Client.Get(ctx, PendingCountKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		// 脏数据直接删掉，当 miss 处理
		_ = Client.Del(ctx, PendingCountKey).Err()
		return 0, false, nil
	}
	return n, true, nil
}

func (c *CountCacheRepository) SetPendingCount(ctx context.Context, n int) error {
	if Client == nil {
		return nil
	}
	return Client.Set(ctx, PendingCountKey, strconv.Itoa(n), PendingCountTTL).Err()
}

// InvalidatePendingCount 提交/撤回/评审之后删 Key，交给读侧重建
func (c *CountCacheRepository) InvalidatePendingCount(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Del(ctx, PendingCountKey).Err()
}
