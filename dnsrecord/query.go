package dnsrecord

import "github.com/miekg/dns"

// 查询侧的通配匹配规则：dns.TypeANY / dns.ClassANY 作为通配值命中任意存储值，
// 其余情况要求与存储值完全相等。

// TypeMatches 判断存储的类型代码是否命中查询类型
func TypeMatches(rtype, qtype uint16) bool {
	return qtype == dns.TypeANY || rtype == qtype
}

// ClassMatches 判断存储的 class 是否命中查询 class
func ClassMatches(rclass, qclass uint16) bool {
	return qclass == dns.ClassANY || rclass == qclass
}
