package dnsrecord

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

// ToRR 将缓存记录转换为 miekg/dns 的 RR，供调用方装入 DNS 响应
// TTL 向下取整到秒
func ToRR(rr ResourceRecord) (dns.RR, error) {
	hdr := dns.RR_Header{
		Name:   rr.Name.Fqdn(),
		Rrtype: rr.Data.Rtype(),
		Class:  rr.Class,
		Ttl:    uint32(rr.TTL / time.Second),
	}

	switch d := rr.Data.(type) {
	case AData:
		return &dns.A{Hdr: hdr, A: net.IP(d.Addr.AsSlice())}, nil
	case AAAAData:
		return &dns.AAAA{Hdr: hdr, AAAA: net.IP(d.Addr.AsSlice())}, nil
	case CNAMEData:
		return &dns.CNAME{Hdr: hdr, Target: d.Target.Fqdn()}, nil
	case NSData:
		return &dns.NS{Hdr: hdr, Ns: d.Target.Fqdn()}, nil
	case PTRData:
		return &dns.PTR{Hdr: hdr, Ptr: d.Target.Fqdn()}, nil
	case MXData:
		return &dns.MX{Hdr: hdr, Preference: d.Preference, Mx: d.Exchange.Fqdn()}, nil
	case TXTData:
		return &dns.TXT{Hdr: hdr, Txt: d.Text}, nil
	default:
		return nil, fmt.Errorf("dnsrecord: unsupported record data %T", rr.Data)
	}
}

// FromRR 将 miekg/dns 的 RR 转换为缓存记录
// 不支持的记录类型返回 false，调用方跳过即可
func FromRR(rr dns.RR) (ResourceRecord, bool) {
	hdr := rr.Header()
	name, err := ParseName(hdr.Name)
	if err != nil {
		return ResourceRecord{}, false
	}

	var data RecordData
	switch v := rr.(type) {
	case *dns.A:
		ip4 := v.A.To4()
		if ip4 == nil {
			return ResourceRecord{}, false
		}
		addr, ok := netip.AddrFromSlice(ip4)
		if !ok {
			return ResourceRecord{}, false
		}
		data = AData{Addr: addr}
	case *dns.AAAA:
		addr, ok := netip.AddrFromSlice(v.AAAA.To16())
		if !ok {
			return ResourceRecord{}, false
		}
		data = AAAAData{Addr: addr}
	case *dns.CNAME:
		target, err := ParseName(v.Target)
		if err != nil {
			return ResourceRecord{}, false
		}
		data = CNAMEData{Target: target}
	case *dns.NS:
		target, err := ParseName(v.Ns)
		if err != nil {
			return ResourceRecord{}, false
		}
		data = NSData{Target: target}
	case *dns.PTR:
		target, err := ParseName(v.Ptr)
		if err != nil {
			return ResourceRecord{}, false
		}
		data = PTRData{Target: target}
	case *dns.MX:
		exchange, err := ParseName(v.Mx)
		if err != nil {
			return ResourceRecord{}, false
		}
		data = MXData{Preference: v.Preference, Exchange: exchange}
	case *dns.TXT:
		data = TXTData{Text: v.Txt}
	default:
		return ResourceRecord{}, false
	}

	return ResourceRecord{
		Name:  name,
		Data:  data,
		Class: hdr.Class,
		TTL:   time.Duration(hdr.Ttl) * time.Second,
	}, true
}
