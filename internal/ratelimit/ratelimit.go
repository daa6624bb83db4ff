// Package ratelimit 提供固定窗口计数的限流器。
package ratelimit

import "context"

// Limiter 在 key 对应的窗口内消耗一次配额，返回本次请求是否被允许
type Limiter interface {
	CheckAndConsume(ctx context.Context, key string) (bool, error)
}
