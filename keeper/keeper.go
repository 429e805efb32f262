package keeper

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bettercache/cache"
	"bettercache/config"
	"bettercache/dnsrecord"
	"bettercache/logger"
	"bettercache/stats"
)

// FillFunc 未命中时向外部解析层取数的回调
// 返回的记录会全部写入缓存；解析逻辑本身不属于本包
type FillFunc func(name dnsrecord.DomainName, qtype, qclass uint16) ([]dnsrecord.ResourceRecord, error)

// Keeper 缓存的持有方：串行化全部操作并负责周期清理
// BetterCache 自身不加锁，Get/Insert/Prune 在这里彼此互斥，
// 保证三套索引结构的键集合在任何两次公开操作之间保持一致
type Keeper struct {
	mu    sync.Mutex
	cache *cache.BetterCache
	fill  FillFunc
	group singleflight.Group
	stats *stats.Stats

	pruneInterval time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

// New 按配置创建 keeper 并启动后台清理协程
// fill 可以为 nil，此时 keeper 只做纯缓存，不回源
func New(cfg *config.Config, fill FillFunc) *Keeper {
	logger.SetLevel(cfg.System.LogLevel)

	k := &Keeper{
		cache:         cache.WithDesiredSize(cfg.Cache.CalculateDesiredSize()),
		fill:          fill,
		stats:         stats.NewStats(),
		pruneInterval: time.Duration(cfg.Cache.PruneIntervalSeconds) * time.Second,
		stopChan:      make(chan struct{}),
	}

	if k.pruneInterval > 0 {
		k.wg.Add(1)
		go k.pruneRoutine()
	}
	return k
}

// pruneRoutine 定期清理过期与超额数据
func (k *Keeper) pruneRoutine() {
	defer k.wg.Done()

	ticker := time.NewTicker(k.pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := k.Prune(); n > 0 {
				logger.Debugf("[Keeper] 清理了 %d 条缓存元组", n)
			}
		case <-k.stopChan:
			return
		}
	}
}

// Close 停止后台清理，可安全重复调用
func (k *Keeper) Close() error {
	k.stopOnce.Do(func() {
		close(k.stopChan)
	})
	k.wg.Wait()
	return nil
}

// Get 加锁查询缓存
func (k *Keeper) Get(name dnsrecord.DomainName, qtype, qclass uint16) []dnsrecord.ResourceRecord {
	k.stats.IncQueries()

	k.mu.Lock()
	rrs := k.cache.Get(name, qtype, qclass)
	k.mu.Unlock()

	if len(rrs) > 0 {
		k.stats.IncCacheHits()
	} else {
		k.stats.IncCacheMisses()
	}
	return rrs
}

// Insert 加锁写入一条记录
func (k *Keeper) Insert(record dnsrecord.ResourceRecord) {
	k.mu.Lock()
	k.cache.Insert(record)
	k.mu.Unlock()
}

// Prune 加锁执行一轮清理，返回删除的元组数
func (k *Keeper) Prune() int {
	k.mu.Lock()
	n := k.cache.Prune()
	k.mu.Unlock()

	k.stats.AddPrunedTuples(n)
	return n
}

// Lookup 先查缓存，未命中且配置了回源时向外部取数并写回
// 相同的 (域名, 类型, class) 并发未命中会被合并为一次回源
func (k *Keeper) Lookup(name dnsrecord.DomainName, qtype, qclass uint16) ([]dnsrecord.ResourceRecord, error) {
	if rrs := k.Get(name, qtype, qclass); len(rrs) > 0 {
		return rrs, nil
	}
	if k.fill == nil {
		return nil, nil
	}

	sfKey := fmt.Sprintf("%s#%d#%d", name.Key(), qtype, qclass)
	v, err, shared := k.group.Do(sfKey, func() (any, error) {
		rrs, err := k.fill(name, qtype, qclass)
		if err != nil {
			return nil, err
		}
		k.mu.Lock()
		for _, rr := range rrs {
			k.cache.Insert(rr)
		}
		k.mu.Unlock()
		return rrs, nil
	})

	if shared {
		logger.Debugf("[Keeper] 回源合并: %s (type=%d)", name, qtype)
	}
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	rrs, ok := v.([]dnsrecord.ResourceRecord)
	if !ok {
		return nil, fmt.Errorf("keeper: unexpected type from singleflight: %T", v)
	}
	return rrs, nil
}

// CacheStats 返回缓存统计快照
func (k *Keeper) CacheStats() cache.Stats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cache.Stats()
}

// Snapshot 返回运行统计快照
func (k *Keeper) Snapshot() stats.Snapshot {
	return k.stats.Snapshot()
}
