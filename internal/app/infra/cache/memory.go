package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// entry 缓存条目
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore 进程内 TTL 缓存。
// 惰性过期：过期条目在第一次被读到时删除，没有后台清理协程。
// 无容量上限——key 由 (sheet_id, cookie 前缀) 组成，实际数量有限，
// 这是已接受的限制。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryStore 创建进程内缓存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
	}
}

// Get 读取缓存，过期条目删除后按未命中返回
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.misses.Inc()
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		// 二次确认：锁间隙里可能已被覆盖成新条目
		if cur, ok := s.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		s.misses.Inc()
		return nil, false
	}

	s.hits.Inc()
	return e.value, true
}

// Put 写入缓存，无条件覆盖
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Size 返回当前条目数（含尚未被读到的过期条目）
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats 返回命中统计
func (s *MemoryStore) Stats() Stats {
	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Size:   s.Size(),
	}
}

var _ Store = (*MemoryStore)(nil)
