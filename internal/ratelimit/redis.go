package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter 适用于多实例部署，计数保存在 redis 中
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	max    int64
}

func NewRedisLimiter(client *redis.Client, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		window: window,
		max:    int64(max),
	}
}

func (l *RedisLimiter) CheckAndConsume(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit_%s", key)

	// 窗口从第一次请求开始计时，ExpireNX 保证后续请求不会延长窗口（需要 redis 7）
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= l.max, nil
}
