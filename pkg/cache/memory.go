package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryItem stores cached value with expiration. Value is never modified
// after Set; a new Set replaces the whole item.
type MemoryItem struct {
	Value    []byte
	ExpireAt time.Time
	// lastAccess is unix nanoseconds, updated by readers without the write lock.
	lastAccess atomic.Int64
}

// IsExpired checks if item has expired at now.
func (m *MemoryItem) IsExpired(now time.Time) bool {
	return !now.Before(m.ExpireAt)
}

// MemoryCache implements Service using in-memory storage with LRU eviction.
// Readers of a valid item share the read lock. Expired items are removed when
// they are next touched; there is no sweeper.
type MemoryCache struct {
	data    map[string]*MemoryItem
	mutex   sync.RWMutex
	maxSize int
	now     func() time.Time
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		data:    make(map[string]*MemoryItem),
		maxSize: cfg.MaxSize,
		now:     time.Now,
	}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	now := mc.now()
	if _, exists := mc.data[key]; !exists && len(mc.data) >= mc.maxSize {
		mc.evictLocked(now)
	}

	expireAt := now.Add(expiration)
	if expiration <= 0 {
		expireAt = now.Add(7 * 24 * time.Hour)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	item := &MemoryItem{Value: stored, ExpireAt: expireAt}
	item.lastAccess.Store(now.UnixNano())
	mc.data[key] = item
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	now := mc.now()

	mc.mutex.RLock()
	item, exists := mc.data[key]
	if exists && !item.IsExpired(now) {
		item.lastAccess.Store(now.UnixNano())
		out := make([]byte, len(item.Value))
		copy(out, item.Value)
		mc.mutex.RUnlock()
		return out, nil
	}
	mc.mutex.RUnlock()

	if exists {
		mc.mutex.Lock()
		// Only drop the item we saw; a concurrent Set may have replaced it.
		if mc.data[key] == item {
			delete(mc.data, key)
		}
		mc.mutex.Unlock()
	}
	return nil, ErrCacheMiss
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

func (mc *MemoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for key := range mc.data {
		if matchPattern(pattern, key) {
			delete(mc.data, key)
		}
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	now := mc.now()
	for _, key := range keys {
		if item, ok := mc.data[key]; ok && !item.IsExpired(now) {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of stored items, expired ones included.
func (mc *MemoryCache) Len() int {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	return len(mc.data)
}

// evictLocked drops one expired item if there is one, otherwise the least recently used.
func (mc *MemoryCache) evictLocked(now time.Time) {
	if len(mc.data) == 0 {
		return
	}

	var oldestKey string
	oldest := now.UnixNano()

	for key, item := range mc.data {
		if item.IsExpired(now) {
			oldestKey = key
			break
		}
		if at := item.lastAccess.Load(); at <= oldest {
			oldest = at
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(mc.data, oldestKey)
	}
}

// Close is a no-op kept for interface parity with the network backends.
func (mc *MemoryCache) Close() error {
	return nil
}
