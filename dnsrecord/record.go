package dnsrecord

import (
	"bytes"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DomainName 域名，按标签序列存储
// 相等性为结构相等（标签序列逐字节相等），不做大小写折叠等规范化
type DomainName struct {
	Labels [][]byte
}

// ParseName 从点分字符串构造域名，结尾的点可有可无
// 仅校验标签长度，不做其他规范化
func ParseName(s string) (DomainName, error) {
	trimmed := strings.TrimSuffix(s, ".")
	if trimmed == "" {
		return DomainName{}, fmt.Errorf("dnsrecord: empty domain name")
	}
	if len(trimmed) > 255 {
		return DomainName{}, fmt.Errorf("dnsrecord: domain name too long: %d bytes", len(trimmed))
	}

	parts := dns.SplitDomainName(dns.Fqdn(trimmed))
	labels := make([][]byte, 0, len(parts))
	for _, p := range parts {
		if p == "" || len(p) > 63 {
			return DomainName{}, fmt.Errorf("dnsrecord: invalid label %q in %q", p, s)
		}
		labels = append(labels, []byte(p))
	}
	return DomainName{Labels: labels}, nil
}

// MustName 同 ParseName，失败时 panic，用于测试和字面量场景
func MustName(s string) DomainName {
	name, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return name
}

// Equal 判断两个域名是否结构相等
func (n DomainName) Equal(other DomainName) bool {
	if len(n.Labels) != len(other.Labels) {
		return false
	}
	for i := range n.Labels {
		if !bytes.Equal(n.Labels[i], other.Labels[i]) {
			return false
		}
	}
	return true
}

// Key 返回可作映射键的规范编码
// 采用长度前缀而不是点号拼接：标签内容可以是任意字节，点号拼接有歧义
func (n DomainName) Key() string {
	var b strings.Builder
	for _, label := range n.Labels {
		b.WriteByte(byte(len(label)))
		b.Write(label)
	}
	return b.String()
}

// String 返回点分表示（不带结尾点）
func (n DomainName) String() string {
	parts := make([]string, len(n.Labels))
	for i, label := range n.Labels {
		parts[i] = string(label)
	}
	return strings.Join(parts, ".")
}

// Fqdn 返回带结尾点的完整形式
func (n DomainName) Fqdn() string {
	return dns.Fqdn(n.String())
}

// RecordData 记录负载，类型代码与数据绑定在一起
// Equal 按负载逐字段比较，用于判定同一 (负载, class) 的重复插入
type RecordData interface {
	// Rtype 返回 DNS 类型代码（dns.TypeA 等）
	Rtype() uint16
	// Equal 判断负载是否相等，类型不同必然不等
	Equal(other RecordData) bool
	String() string
}

// AData A 记录负载（IPv4 地址）
type AData struct {
	Addr netip.Addr
}

func (d AData) Rtype() uint16 { return dns.TypeA }

func (d AData) Equal(other RecordData) bool {
	o, ok := other.(AData)
	return ok && d.Addr == o.Addr
}

func (d AData) String() string { return d.Addr.String() }

// AAAAData AAAA 记录负载（IPv6 地址）
type AAAAData struct {
	Addr netip.Addr
}

func (d AAAAData) Rtype() uint16 { return dns.TypeAAAA }

func (d AAAAData) Equal(other RecordData) bool {
	o, ok := other.(AAAAData)
	return ok && d.Addr == o.Addr
}

func (d AAAAData) String() string { return d.Addr.String() }

// CNAMEData CNAME 记录负载
type CNAMEData struct {
	Target DomainName
}

func (d CNAMEData) Rtype() uint16 { return dns.TypeCNAME }

func (d CNAMEData) Equal(other RecordData) bool {
	o, ok := other.(CNAMEData)
	return ok && d.Target.Equal(o.Target)
}

func (d CNAMEData) String() string { return d.Target.String() }

// NSData NS 记录负载
type NSData struct {
	Target DomainName
}

func (d NSData) Rtype() uint16 { return dns.TypeNS }

func (d NSData) Equal(other RecordData) bool {
	o, ok := other.(NSData)
	return ok && d.Target.Equal(o.Target)
}

func (d NSData) String() string { return d.Target.String() }

// PTRData PTR 记录负载
type PTRData struct {
	Target DomainName
}

func (d PTRData) Rtype() uint16 { return dns.TypePTR }

func (d PTRData) Equal(other RecordData) bool {
	o, ok := other.(PTRData)
	return ok && d.Target.Equal(o.Target)
}

func (d PTRData) String() string { return d.Target.String() }

// MXData MX 记录负载
type MXData struct {
	Preference uint16
	Exchange   DomainName
}

func (d MXData) Rtype() uint16 { return dns.TypeMX }

func (d MXData) Equal(other RecordData) bool {
	o, ok := other.(MXData)
	return ok && d.Preference == o.Preference && d.Exchange.Equal(o.Exchange)
}

func (d MXData) String() string {
	return fmt.Sprintf("%d %s", d.Preference, d.Exchange)
}

// TXTData TXT 记录负载
type TXTData struct {
	Text []string
}

func (d TXTData) Rtype() uint16 { return dns.TypeTXT }

func (d TXTData) Equal(other RecordData) bool {
	o, ok := other.(TXTData)
	return ok && slices.Equal(d.Text, o.Text)
}

func (d TXTData) String() string { return strings.Join(d.Text, " ") }

// ResourceRecord 一条解析结果：名称、负载、class 与相对 TTL
type ResourceRecord struct {
	Name  DomainName
	Data  RecordData
	Class uint16
	TTL   time.Duration
}
