// Package cache 保存活动结果这一派生视图。
//
// 每个活动有一个版本号，任何写入都会让版本号加一并清空缓存。
// 计算结果之前先读取版本号，只有版本号没有变化时才能写回，
// 这样在计算期间发生的提交不会被旧的结果覆盖。
package cache

import (
	"context"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

type ResultsCache interface {
	// Generation 必须在读取数据库之前调用
	Generation(ctx context.Context, eventID int64) (int64, error)
	Get(ctx context.Context, eventID int64, limit int) (*domain.EventResults, bool, error)
	// Set 在版本号已经变化时不会写入，返回 false
	Set(ctx context.Context, eventID int64, generation int64, limit int, results *domain.EventResults) (bool, error)
	Invalidate(ctx context.Context, eventID int64) error
}
