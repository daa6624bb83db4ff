package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

// 版本号的过期时间要远大于结果的过期时间
const generationExpiration = 24 * time.Hour

// KEYS: 版本号, 结果；ARGV: 期望的版本号, limit, 结果, 过期秒数
var setIfCurrent = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '0') ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[2], ARGV[2], ARGV[3])
redis.call('EXPIRE', KEYS[2], ARGV[4])
return 1
`)

type RedisResultsCache struct {
	client     *redis.Client
	expiration time.Duration
}

func NewRedisResultsCache(client *redis.Client, expiration time.Duration) *RedisResultsCache {
	return &RedisResultsCache{
		client:     client,
		expiration: expiration,
	}
}

// 同一个活动不同 limit 的结果放在一个 hash 里
func resultsKey(eventID int64) string {
	return fmt.Sprintf("event_%d_results", eventID)
}

func generationKey(eventID int64) string {
	return fmt.Sprintf("event_%d_results_gen", eventID)
}

func (c *RedisResultsCache) Generation(ctx context.Context, eventID int64) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(eventID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

func (c *RedisResultsCache) Get(ctx context.Context, eventID int64, limit int) (*domain.EventResults, bool, error) {
	data, err := c.client.HGet(ctx, resultsKey(eventID), strconv.Itoa(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	results := &domain.EventResults{}
	if err := json.Unmarshal(data, results); err != nil {
		return nil, false, fmt.Errorf("结果缓存已损坏: %w", err)
	}
	return results, true, nil
}

func (c *RedisResultsCache) Set(ctx context.Context, eventID int64, generation int64, limit int, results *domain.EventResults) (bool, error) {
	data, err := json.Marshal(results)
	if err != nil {
		return false, err
	}

	keys := []string{generationKey(eventID), resultsKey(eventID)}
	args := []any{strconv.FormatInt(generation, 10), strconv.Itoa(limit), data, int64(c.expiration / time.Second)}
	stored, err := setIfCurrent.Run(ctx, c.client, keys, args...).Int()
	if err != nil {
		return false, err
	}

	return stored == 1, nil
}

func (c *RedisResultsCache) Invalidate(ctx context.Context, eventID int64) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, generationKey(eventID))
	pipe.Expire(ctx, generationKey(eventID), generationExpiration)
	pipe.Del(ctx, resultsKey(eventID))
	_, err := pipe.Exec(ctx)
	return err
}
