package cache

import (
	"sync/atomic"
	"time"

	"github.com/miekg/dns"

	"bettercache/dnsrecord"
)

// BetterCache 有界 DNS 记录缓存
// 三套结构共同维护同一个键集合：
//   - entries：域名 -> 条目，拥有数据本体
//   - accessPriority：按最近读取时刻排序，最久未读的域名先弹出
//   - expiryPriority：按最早过期时刻排序，最先到期的域名先弹出
//
// 任何公开操作返回前三者的键集合必须一致，currentSize 恒等于各条目 size 之和。
// 本结构自身不加锁（见 keeper 包）；Get 也会改写访问序，并发读同样不安全
type BetterCache struct {
	entries        map[string]*CachedDomainRecords
	accessPriority *keyedHeap
	expiryPriority *keyedHeap
	currentSize    int
	desiredSize    int

	hits      int64
	misses    int64
	evictions int64

	// now 取当前时刻，测试中可替换
	now func() time.Time
}

// WithDesiredSize 创建目标容量为 desiredSize（元组数）的缓存
// 容量必须为正，否则 panic：零容量缓存属于启动期配置错误
func WithDesiredSize(desiredSize int) *BetterCache {
	if desiredSize <= 0 {
		panic("cache: desired size must be positive")
	}
	return &BetterCache{
		entries:        make(map[string]*CachedDomainRecords, desiredSize/2),
		accessPriority: newKeyedHeap(desiredSize),
		expiryPriority: newKeyedHeap(desiredSize),
		desiredSize:    desiredSize,
		now:            time.Now,
	}
}

// Get 查找 name 下命中 qtype/qclass 的记录
// 返回记录的 TTL 为剩余存活时间；已过期但尚未清理的数据以 TTL 0 返回
// 仅在结果非空时刷新访问序；Get 自身从不驱逐数据
func (c *BetterCache) Get(name dnsrecord.DomainName, qtype, qclass uint16) []dnsrecord.ResourceRecord {
	now := c.now()
	key := name.Key()

	entry, exists := c.entries[key]
	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil
	}

	var rrs []dnsrecord.ResourceRecord
	collect := func(tuples []tuple) {
		for _, t := range tuples {
			if !dnsrecord.ClassMatches(t.class, qclass) {
				continue
			}
			rrs = append(rrs, dnsrecord.ResourceRecord{
				Name:  entry.name,
				Data:  t.data,
				Class: t.class,
				TTL:   remainingTTL(t.expires, now),
			})
		}
	}

	if qtype == dns.TypeANY {
		for _, tuples := range entry.records {
			collect(tuples)
		}
	} else {
		collect(entry.records[qtype])
	}

	if len(rrs) > 0 {
		entry.lastRead = now
		c.accessPriority.update(key, now)
		atomic.AddInt64(&c.hits, 1)
	} else {
		atomic.AddInt64(&c.misses, 1)
	}
	return rrs
}

// remainingTTL 计算剩余 TTL，已过期时收敛到 0，绝不为负
func remainingTTL(expires, now time.Time) time.Duration {
	if ttl := expires.Sub(now); ttl > 0 {
		return ttl
	}
	return 0
}

// Insert 写入一条记录，绝对过期时刻取 now + TTL
// 同一域名同类型下，同 (负载, class) 的元组只保留一份，
// 重复插入仅刷新过期时刻，不改变元组计数
// Insert 从不失败也从不拒绝写入，容量由 Prune 另行收敛
func (c *BetterCache) Insert(record dnsrecord.ResourceRecord) {
	now := c.now()
	key := record.Name.Key()
	rtype := record.Data.Rtype()
	t := tuple{data: record.Data, class: record.Class, expires: now.Add(record.TTL)}

	entry, exists := c.entries[key]
	if !exists {
		c.entries[key] = newCachedDomainRecords(record.Name, now, t)
		c.accessPriority.push(key, now)
		c.expiryPriority.push(key, t.expires)
		c.currentSize++
		return
	}

	if tuples, ok := entry.records[rtype]; ok {
		var dupExpiry time.Time
		dup := false
		for i := range tuples {
			if tuples[i].class == t.class && tuples[i].data.Equal(t.data) {
				dupExpiry = tuples[i].expires
				tuples[i] = tuples[len(tuples)-1]
				tuples = tuples[:len(tuples)-1]
				dup = true
				break
			}
		}
		tuples = append(tuples, t)
		entry.records[rtype] = tuples

		if dup {
			entry.size--
			c.currentSize--

			// 被替换元组恰好持有条目当前的最早过期时刻时，重新找最小值。
			// 只扫描本类型分组：别的分组若持有更早的过期时刻，nextExpiry
			// 会暂时偏大，过期清理弹出该域名时会过滤全部分组，把账补平
			if dupExpiry.Equal(entry.nextExpiry) {
				newNext := t.expires
				for _, existing := range tuples {
					if existing.expires.Before(newNext) {
						newNext = existing.expires
					}
				}
				entry.nextExpiry = newNext
				c.expiryPriority.update(key, newNext)
			}
		}
	} else {
		entry.records[rtype] = []tuple{t}
	}

	entry.lastRead = now
	entry.size++
	c.accessPriority.update(key, now)
	if t.expires.Before(entry.nextExpiry) {
		entry.nextExpiry = t.expires
		c.expiryPriority.update(key, t.expires)
	}
	c.currentSize++
}

// Prune 先清已过期数据，再按最久未读整域驱逐，直到体积回到目标容量
// 返回删除的元组总数；体积未超限时直接返回 0
// 缓存不会自行调度清理，由持有方周期性调用（见 keeper 包）
func (c *BetterCache) Prune() int {
	if c.currentSize <= c.desiredSize {
		return 0
	}

	pruned := c.removeExpired()

	for c.currentSize > c.desiredSize {
		pruned += c.removeLeastRecentlyUsed()
	}

	atomic.AddInt64(&c.evictions, int64(pruned))
	return pruned
}

// removeExpired 反复执行单步过期清理，直到一步清不出任何元组为止
// 每一步都可能让新的最早过期域名浮到堆顶，所以必须循环
func (c *BetterCache) removeExpired() int {
	pruned := 0
	for {
		n := c.removeExpiredStep()
		if n == 0 {
			return pruned
		}
		pruned += n
	}
}

// removeExpiredStep 弹出最早过期的域名做一次过滤
// 堆顶尚未到期时原样放回并返回 0——堆顶是全局最小，后面的更不可能到期
func (c *BetterCache) removeExpiredStep() int {
	key, expiry, ok := c.expiryPriority.pop()
	if !ok {
		return 0
	}

	now := c.now()
	if expiry.After(now) {
		c.expiryPriority.push(key, expiry)
		return 0
	}

	entry, exists := c.entries[key]
	if !exists {
		// 堆里残留了已不存在的键，把访问堆中的同名键一并清掉
		c.accessPriority.remove(key)
		return 0
	}

	removed, next, alive := entry.filterExpired(now)
	if alive {
		entry.nextExpiry = next
		c.expiryPriority.push(key, next)
	} else {
		delete(c.entries, key)
		c.accessPriority.remove(key)
	}

	c.currentSize -= removed
	return removed
}

// removeLeastRecentlyUsed 整域驱逐最久未读的域名
// 访问序驱逐不支持部分删除，域名下的元组一次全部出局
func (c *BetterCache) removeLeastRecentlyUsed() int {
	key, _, ok := c.accessPriority.pop()
	if !ok {
		return 0
	}
	c.expiryPriority.remove(key)

	entry, exists := c.entries[key]
	if !exists {
		return 0
	}
	delete(c.entries, key)
	c.currentSize -= entry.size
	return entry.size
}
