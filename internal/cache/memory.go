package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

type memoryEntry struct {
	expiresAt time.Time
	results   map[int][]byte
}

// MemoryResultsCache 只在单个进程内有效
type MemoryResultsCache struct {
	mu          sync.Mutex
	expiration  time.Duration
	generations map[int64]int64
	entries     map[int64]*memoryEntry
	now         func() time.Time
}

func NewMemoryResultsCache(expiration time.Duration) *MemoryResultsCache {
	return &MemoryResultsCache{
		expiration:  expiration,
		generations: make(map[int64]int64),
		entries:     make(map[int64]*memoryEntry),
		now:         time.Now,
	}
}

func (c *MemoryResultsCache) Generation(_ context.Context, eventID int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generations[eventID], nil
}

func (c *MemoryResultsCache) Get(_ context.Context, eventID int64, limit int) (*domain.EventResults, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[eventID]
	if !exists {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, eventID)
		return nil, false, nil
	}

	data, exists := entry.results[limit]
	if !exists {
		return nil, false, nil
	}

	// 返回副本，调用方修改结果不会影响缓存
	results := &domain.EventResults{}
	if err := json.Unmarshal(data, results); err != nil {
		return nil, false, err
	}
	return results, true, nil
}

func (c *MemoryResultsCache) Set(_ context.Context, eventID int64, generation int64, limit int, results *domain.EventResults) (bool, error) {
	data, err := json.Marshal(results)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[eventID] != generation {
		return false, nil
	}

	now := c.now()
	entry, exists := c.entries[eventID]
	if !exists || !now.Before(entry.expiresAt) {
		entry = &memoryEntry{results: make(map[int][]byte)}
		c.entries[eventID] = entry
	}
	entry.results[limit] = data
	entry.expiresAt = now.Add(c.expiration)

	return true, nil
}

func (c *MemoryResultsCache) Invalidate(_ context.Context, eventID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generations[eventID]++
	delete(c.entries, eventID)
	return nil
}
