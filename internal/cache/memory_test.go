package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

func results(total int) *domain.EventResults {
	return &domain.EventResults{
		TotalParticipants: total,
		Aggregate:         domain.SlotAggregate{},
		BestBlocks:        []domain.TimeBlock{},
	}
}

func TestMemoryResultsCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultsCache(time.Minute)

	gen, err := c.Generation(ctx, 1)
	require.NoError(t, err)

	stored, err := c.Set(ctx, 1, gen, 3, results(2))
	require.NoError(t, err)
	assert.True(t, stored)

	got, ok, err := c.Get(ctx, 1, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.TotalParticipants)

	// 不同的 limit 分开缓存
	_, ok, err = c.Get(ctx, 1, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryResultsCache_RejectsOldGeneration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultsCache(time.Minute)

	gen, err := c.Generation(ctx, 1)
	require.NoError(t, err)

	// 计算期间有新的提交
	require.NoError(t, c.Invalidate(ctx, 1))

	stored, err := c.Set(ctx, 1, gen, 3, results(1))
	require.NoError(t, err)
	assert.False(t, stored)

	_, ok, err := c.Get(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	newGen, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, gen+1, newGen)
}

func TestMemoryResultsCache_InvalidateDropsAllLimits(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultsCache(time.Minute)

	for _, limit := range []int{1, 3} {
		_, err := c.Set(ctx, 1, 0, limit, results(1))
		require.NoError(t, err)
	}
	_, err := c.Set(ctx, 2, 0, 3, results(4))
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, 1))

	for _, limit := range []int{1, 3} {
		_, ok, err := c.Get(ctx, 1, limit)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	// 其他活动不受影响
	_, ok, err := c.Get(ctx, 2, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryResultsCache_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := NewMemoryResultsCache(time.Minute)
	c.now = func() time.Time { return now }

	_, err := c.Set(ctx, 1, 0, 3, results(1))
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, ok, err := c.Get(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, err = c.Get(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryResultsCache_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryResultsCache(time.Minute)

	_, err := c.Set(ctx, 1, 0, 3, results(1))
	require.NoError(t, err)

	got, _, err := c.Get(ctx, 1, 3)
	require.NoError(t, err)
	got.TotalParticipants = 99

	again, _, err := c.Get(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, again.TotalParticipants)
}
