package cache

import (
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bettercache/dnsrecord"
)

func TestSimpleCacheInsertAndGet(t *testing.T) {
	c := NewSimpleCache()
	c.Insert(aRecord("example.com", "192.0.2.1", 30*time.Second))
	c.Insert(cnameRecord("example.com", "alias.example.net", 30*time.Second))

	rrs := c.Get(dnsrecord.MustName("example.com"), dns.TypeA, dns.ClassINET)
	require.Len(t, rrs, 1)
	assert.Equal(t, uint16(dns.TypeA), rrs[0].Data.Rtype())

	rrs = c.Get(dnsrecord.MustName("example.com"), dns.TypeANY, dns.ClassANY)
	assert.Len(t, rrs, 2)

	rrs = c.Get(dnsrecord.MustName("missing.com"), dns.TypeA, dns.ClassINET)
	assert.Empty(t, rrs)
}

func TestSimpleCacheNeverEvicts(t *testing.T) {
	c := NewSimpleCache()

	// 基线实现没有去重也没有驱逐，条目只增不减
	for i := 0; i < 3; i++ {
		c.Insert(aRecord("example.com", "192.0.2.1", time.Second))
	}
	rrs := c.Get(dnsrecord.MustName("example.com"), dns.TypeA, dns.ClassINET)
	assert.Len(t, rrs, 3)
	assert.Equal(t, 1, c.Len())
}
