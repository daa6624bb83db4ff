package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// MemoryLimiter 只在单个进程内有效
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	size    time.Duration
	max     int
	now     func() time.Time
}

func NewMemoryLimiter(size time.Duration, max int) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		size:    size,
		max:     max,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) CheckAndConsume(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, exists := l.windows[key]
	if !exists || now.Sub(w.start) >= l.size {
		l.sweep(now)
		w = &window{start: now}
		l.windows[key] = w
	}

	w.count++
	return w.count <= l.max, nil
}

// sweep 删除已过期的窗口，防止 map 无限增长
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.size {
			delete(l.windows, key)
		}
	}
}
