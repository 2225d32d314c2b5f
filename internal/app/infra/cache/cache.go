// Package cache 提供结果缓存。默认用进程内存储（重启即清空），
// 多实例部署可切到 Redis 后端共享。
// 没有 single-flight 合并：同一个 key 的并发未命中会各自回源，
// 换取实现简单（key 由 sheet_id + cookie 前缀组成，量级有限）。
package cache

import (
	"context"
	"time"
)

// Store 键值缓存接口。值为序列化后的字节，由调用方负责编解码。
type Store interface {
	// Get 读取缓存。条目已过期时删除并按未命中处理。
	Get(ctx context.Context, key string) ([]byte, bool)

	// Put 写入缓存，无条件覆盖同 key 的旧条目。
	Put(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// StatsReporter 能上报命中统计的存储（Redis 后端不实现）
type StatsReporter interface {
	Stats() Stats
}

// Stats 缓存命中统计（health 接口展示用）
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}
