package cache

import (
	"time"

	"bettercache/dnsrecord"
)

// SimpleCache 无界基线缓存：一个域名到元组列表的映射，没有任何驱逐
// 只用作与 BetterCache 对比的最简实现，生产路径不应使用
type SimpleCache struct {
	entries map[string]simpleEntry
}

type simpleEntry struct {
	name   dnsrecord.DomainName
	tuples []tuple
}

// NewSimpleCache 创建空的基线缓存
func NewSimpleCache() *SimpleCache {
	return &SimpleCache{
		entries: make(map[string]simpleEntry),
	}
}

// Insert 追加一条记录，不去重也不限容
func (c *SimpleCache) Insert(record dnsrecord.ResourceRecord) {
	key := record.Name.Key()
	entry, exists := c.entries[key]
	if !exists {
		entry = simpleEntry{name: record.Name}
	}
	entry.tuples = append(entry.tuples, tuple{
		data:    record.Data,
		class:   record.Class,
		expires: time.Now().Add(record.TTL),
	})
	c.entries[key] = entry
}

// Get 查找命中 qtype/qclass 的记录，TTL 同样收敛到非负
func (c *SimpleCache) Get(name dnsrecord.DomainName, qtype, qclass uint16) []dnsrecord.ResourceRecord {
	entry, exists := c.entries[name.Key()]
	if !exists {
		return nil
	}

	now := time.Now()
	var rrs []dnsrecord.ResourceRecord
	for _, t := range entry.tuples {
		if !dnsrecord.TypeMatches(t.data.Rtype(), qtype) || !dnsrecord.ClassMatches(t.class, qclass) {
			continue
		}
		rrs = append(rrs, dnsrecord.ResourceRecord{
			Name:  entry.name,
			Data:  t.data,
			Class: t.class,
			TTL:   remainingTTL(t.expires, now),
		})
	}
	return rrs
}

// Len 返回域名条目数
func (c *SimpleCache) Len() int { return len(c.entries) }
