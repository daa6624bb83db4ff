package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(time.Minute, 2)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i, want := range []bool{true, true, false, false} {
		ok, err := l.CheckAndConsume(ctx, "create_event_1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "request %d", i+1)
	}

	// 窗口结束后配额恢复
	now = now.Add(time.Minute)
	ok, err := l.CheckAndConsume(ctx, "create_event_1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 1)
	ctx := context.Background()

	ok, _ := l.CheckAndConsume(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.CheckAndConsume(ctx, "a")
	assert.False(t, ok)
	ok, _ = l.CheckAndConsume(ctx, "b")
	assert.True(t, ok)
}

func TestMemoryLimiter_SweepsExpiredWindows(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(time.Minute, 1)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	_, _ = l.CheckAndConsume(ctx, "a")
	_, _ = l.CheckAndConsume(ctx, "b")
	require.Len(t, l.windows, 2)

	now = now.Add(2 * time.Minute)
	_, _ = l.CheckAndConsume(ctx, "c")
	assert.Len(t, l.windows, 1)
	assert.Contains(t, l.windows, "c")
}

var _ Limiter = (*MemoryLimiter)(nil)
var _ Limiter = (*RedisLimiter)(nil)
