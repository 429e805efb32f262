package stats

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats 运行统计
type Stats struct {
	queries      int64
	cacheHits    int64
	cacheMisses  int64
	prunedTuples int64

	// 启动时间
	startTime time.Time
}

// NewStats 创建新的统计实例
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
	}
}

// IncQueries 增加查询计数
func (s *Stats) IncQueries() {
	atomic.AddInt64(&s.queries, 1)
}

// IncCacheHits 增加缓存命中计数
func (s *Stats) IncCacheHits() {
	atomic.AddInt64(&s.cacheHits, 1)
}

// IncCacheMisses 增加缓存未命中计数
func (s *Stats) IncCacheMisses() {
	atomic.AddInt64(&s.cacheMisses, 1)
}

// AddPrunedTuples 累加被清理的元组数
func (s *Stats) AddPrunedTuples(n int) {
	atomic.AddInt64(&s.prunedTuples, int64(n))
}

// Snapshot 统计快照，含系统资源状态
type Snapshot struct {
	Queries      int64
	CacheHits    int64
	CacheMisses  int64
	PrunedTuples int64
	HitRate      float64
	Uptime       time.Duration

	// 系统状态 (使用 gopsutil)
	NumCPU         int
	MemTotal       uint64
	MemAvailable   uint64
	MemUsedPercent float64
}

// Snapshot 生成当前快照
// gopsutil 取不到系统信息时退回 runtime 数据，统计本身不受影响
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Queries:      atomic.LoadInt64(&s.queries),
		CacheHits:    atomic.LoadInt64(&s.cacheHits),
		CacheMisses:  atomic.LoadInt64(&s.cacheMisses),
		PrunedTuples: atomic.LoadInt64(&s.prunedTuples),
		Uptime:       time.Since(s.startTime),
		NumCPU:       runtime.NumCPU(),
	}

	if total := snap.CacheHits + snap.CacheMisses; total > 0 {
		snap.HitRate = float64(snap.CacheHits) / float64(total)
	}

	if n, err := cpu.Counts(true); err == nil {
		snap.NumCPU = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemTotal = vm.Total
		snap.MemAvailable = vm.Available
		snap.MemUsedPercent = vm.UsedPercent
	}

	return snap
}
