package cache

import (
	"time"

	"bettercache/dnsrecord"
)

// tuple 单条缓存数据：负载、class 与绝对过期时刻
type tuple struct {
	data    dnsrecord.RecordData
	class   uint16
	expires time.Time
}

// CachedDomainRecords 单个域名下的全部缓存记录，按类型代码分组
// 不变式：size 恒等于所有分组中的元组总数；
// nextExpiry 恒等于存活元组中最早的过期时刻（元组数为零时条目整体删除）
type CachedDomainRecords struct {
	name       dnsrecord.DomainName
	lastRead   time.Time
	nextExpiry time.Time
	size       int
	records    map[uint16][]tuple
}

func newCachedDomainRecords(name dnsrecord.DomainName, now time.Time, t tuple) *CachedDomainRecords {
	return &CachedDomainRecords{
		name:       name,
		lastRead:   now,
		nextExpiry: t.expires,
		size:       1,
		records:    map[uint16][]tuple{t.data.Rtype(): {t}},
	}
}

// Name 返回条目对应的域名
func (e *CachedDomainRecords) Name() dnsrecord.DomainName { return e.name }

// Size 返回条目下的存活元组数
func (e *CachedDomainRecords) Size() int { return e.size }

// LastRead 返回最近一次命中读取或插入的时刻
func (e *CachedDomainRecords) LastRead() time.Time { return e.lastRead }

// NextExpiry 返回存活元组中最早的过期时刻
func (e *CachedDomainRecords) NextExpiry() time.Time { return e.nextExpiry }

// filterExpired 删除所有已到期的元组，返回删除数与剩余元组的最早过期时刻
// 剩余为零时 ok 为 false。过滤后为空的分组一并删除
func (e *CachedDomainRecords) filterExpired(now time.Time) (removed int, next time.Time, ok bool) {
	for rtype, tuples := range e.records {
		kept := tuples[:0]
		for _, t := range tuples {
			if !t.expires.After(now) {
				removed++
				continue
			}
			kept = append(kept, t)
			if !ok || t.expires.Before(next) {
				next = t.expires
				ok = true
			}
		}
		if len(kept) == 0 {
			delete(e.records, rtype)
		} else {
			e.records[rtype] = kept
		}
	}
	e.size -= removed
	return removed, next, ok
}
