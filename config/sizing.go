package config

import (
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// bytesPerTuple 平均每条缓存元组的内存估算（负载 + 三套索引的开销）
	bytesPerTuple = 512

	// minDesiredSize 折算结果的下限，保证缓存总能工作
	minDesiredSize = 16
)

// CalculateDesiredSize 计算缓存的目标容量（元组数）
// 显式配置 desired_size 时直接使用；否则按 max_memory_mb 折算，
// 并以系统当前可用内存的一半封顶，避免在小内存机器上配置过大
func (c *CacheConfig) CalculateDesiredSize() int {
	if c.DesiredSize > 0 {
		return c.DesiredSize
	}
	if c.MaxMemoryMB <= 0 {
		return 0
	}

	budget := uint64(c.MaxMemoryMB) * 1024 * 1024
	if vm, err := mem.VirtualMemory(); err == nil && vm.Available/2 < budget {
		budget = vm.Available / 2
	}

	n := int(budget / bytesPerTuple)
	return max(n, minDesiredSize)
}
