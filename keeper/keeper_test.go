package keeper

import (
	"errors"
	"net/netip"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bettercache/config"
	"bettercache/dnsrecord"
)

func testConfig(desired, pruneSeconds int) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			DesiredSize:          desired,
			MaxMemoryMB:          64,
			PruneIntervalSeconds: pruneSeconds,
		},
		System: config.SystemConfig{LogLevel: "info"},
	}
}

func aRecord(name, ip string, ttl time.Duration) dnsrecord.ResourceRecord {
	return dnsrecord.ResourceRecord{
		Name:  dnsrecord.MustName(name),
		Data:  dnsrecord.AData{Addr: netip.MustParseAddr(ip)},
		Class: dns.ClassINET,
		TTL:   ttl,
	}
}

func TestKeeperInsertAndGet(t *testing.T) {
	k := New(testConfig(4, 0), nil)
	defer k.Close()

	k.Insert(aRecord("example.com", "192.0.2.1", time.Minute))

	rrs := k.Get(dnsrecord.MustName("example.com"), dns.TypeA, dns.ClassINET)
	require.Len(t, rrs, 1)

	stats := k.CacheStats()
	assert.Equal(t, 1, stats.CurrentSize)
	assert.Equal(t, 4, stats.DesiredSize)

	snap := k.Snapshot()
	assert.Equal(t, int64(1), snap.Queries)
	assert.Equal(t, int64(1), snap.CacheHits)
}

func TestKeeperLookupWithoutFill(t *testing.T) {
	k := New(testConfig(4, 0), nil)
	defer k.Close()

	rrs, err := k.Lookup(dnsrecord.MustName("example.com"), dns.TypeA, dns.ClassINET)
	require.NoError(t, err)
	assert.Empty(t, rrs)
}

func TestKeeperLookupFillsOnMiss(t *testing.T) {
	var calls int64
	fill := func(name dnsrecord.DomainName, qtype, qclass uint16) ([]dnsrecord.ResourceRecord, error) {
		atomic.AddInt64(&calls, 1)
		return []dnsrecord.ResourceRecord{aRecord(name.String(), "192.0.2.1", time.Minute)}, nil
	}

	k := New(testConfig(4, 0), fill)
	defer k.Close()

	rrs, err := k.Lookup(dnsrecord.MustName("example.com"), dns.TypeA, dns.ClassINET)
	require.NoError(t, err)
	require.Len(t, rrs, 1)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	// 第二次直接命中缓存，不再回源
	rrs, err = k.Lookup(dnsrecord.MustName("example.com"), dns.TypeA, dns.ClassINET)
	require.NoError(t, err)
	require.Len(t, rrs, 1)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestKeeperLookupFillError(t *testing.T) {
	wantErr := errors.New("upstream unreachable")
	fill := func(name dnsrecord.DomainName, qtype, qclass uint16) ([]dnsrecord.ResourceRecord, error) {
		return nil, wantErr
	}

	k := New(testConfig(4, 0), fill)
	defer k.Close()

	_, err := k.Lookup(dnsrecord.MustName("example.com"), dns.TypeA, dns.ClassINET)
	assert.ErrorIs(t, err, wantErr)
}

func TestKeeperLookupMergesConcurrentMisses(t *testing.T) {
	var calls int64
	release := make(chan struct{})
	fill := func(name dnsrecord.DomainName, qtype, qclass uint16) ([]dnsrecord.ResourceRecord, error) {
		atomic.AddInt64(&calls, 1)
		<-release
		return []dnsrecord.ResourceRecord{aRecord(name.String(), "192.0.2.1", time.Minute)}, nil
	}

	k := New(testConfig(8, 0), fill)
	defer k.Close()

	const goroutines = 8
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rrs, err := k.Lookup(dnsrecord.MustName("example.com"), dns.TypeA, dns.ClassINET)
			assert.NoError(t, err)
			assert.Len(t, rrs, 1)
		}()
	}

	// 等并发未命中都挂到 singleflight 上再放行
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestKeeperPruneRoutine(t *testing.T) {
	k := New(testConfig(1, 1), nil)
	defer k.Close()

	k.Insert(aRecord("a.com", "192.0.2.1", time.Hour))
	k.Insert(aRecord("b.com", "192.0.2.2", time.Hour))
	k.Insert(aRecord("c.com", "192.0.2.3", time.Hour))
	assert.Equal(t, 3, k.CacheStats().CurrentSize)

	// 后台协程按间隔收敛体积
	assert.Eventually(t, func() bool {
		return k.CacheStats().CurrentSize <= 1
	}, 3*time.Second, 100*time.Millisecond)
}

func TestKeeperCloseIdempotent(t *testing.T) {
	k := New(testConfig(4, 1), nil)
	require.NoError(t, k.Close())
	require.NoError(t, k.Close())
}
