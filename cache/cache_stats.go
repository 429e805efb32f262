package cache

import "sync/atomic"

// Stats 缓存运行快照
type Stats struct {
	Entries     int   // 域名条目数
	CurrentSize int   // 存活元组总数
	DesiredSize int   // 目标容量（元组数）
	Hits        int64 // 命中计数
	Misses      int64 // 未命中计数
	Evictions   int64 // 被 Prune 删除的元组累计
}

// Stats 返回当前统计快照
func (c *BetterCache) Stats() Stats {
	return Stats{
		Entries:     len(c.entries),
		CurrentSize: c.currentSize,
		DesiredSize: c.desiredSize,
		Hits:        atomic.LoadInt64(&c.hits),
		Misses:      atomic.LoadInt64(&c.misses),
		Evictions:   atomic.LoadInt64(&c.evictions),
	}
}

// CurrentSize 返回存活元组总数
func (c *BetterCache) CurrentSize() int { return c.currentSize }

// DesiredSize 返回目标容量
func (c *BetterCache) DesiredSize() int { return c.desiredSize }

// Len 返回域名条目数
func (c *BetterCache) Len() int { return len(c.entries) }

// UsagePercent 返回当前体积相对目标容量的占比
func (c *BetterCache) UsagePercent() float64 {
	if c.desiredSize == 0 {
		return 0
	}
	return float64(c.currentSize) / float64(c.desiredSize)
}

// GetEvictions 获取驱逐计数
func (c *BetterCache) GetEvictions() int64 {
	return atomic.LoadInt64(&c.evictions)
}

// GetStats 获取命中与未命中计数
func (c *BetterCache) GetStats() (hits, misses int64) {
	hits = atomic.LoadInt64(&c.hits)
	misses = atomic.LoadInt64(&c.misses)
	return
}
