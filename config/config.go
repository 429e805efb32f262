package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 默认配置文件内容（包含说明）
const DefaultConfigContent = `# bettercache 配置文件

# 缓存配置
cache:
  # 目标容量（缓存元组条数）。0 表示按 max_memory_mb 自动折算
  desired_size: 0
  # 缓存内存预算（MB），desired_size 为 0 时生效
  max_memory_mb: 64
  # 后台清理间隔（秒）
  prune_interval_seconds: 60

# 系统配置
system:
  # 日志级别：debug / info / warn / error
  log_level: "info"
`

// Config 主配置结构
type Config struct {
	Cache  CacheConfig  `yaml:"cache"`
	System SystemConfig `yaml:"system"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	DesiredSize          int `yaml:"desired_size"`
	MaxMemoryMB          int `yaml:"max_memory_mb"`
	PruneIntervalSeconds int `yaml:"prune_interval_seconds"`
}

// SystemConfig 系统配置
type SystemConfig struct {
	LogLevel string `yaml:"log_level"`
}

// CreateDefaultConfig 创建默认配置文件
func CreateDefaultConfig(filePath string) error {
	return os.WriteFile(filePath, []byte(DefaultConfigContent), 0644)
}

// LoadConfig 从 YAML 文件加载配置
// 文件不存在时自动落一份默认配置再读取
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := CreateDefaultConfig(filePath); err != nil {
			return nil, err
		}
		data, err = os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	setDefaultValues(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaultValues 设置配置文件中缺失字段的默认值
func setDefaultValues(cfg *Config) {
	if cfg.Cache.MaxMemoryMB == 0 {
		cfg.Cache.MaxMemoryMB = 64
	}
	if cfg.Cache.PruneIntervalSeconds == 0 {
		cfg.Cache.PruneIntervalSeconds = 60
	}
	if cfg.System.LogLevel == "" {
		cfg.System.LogLevel = "info"
	}
}

// Validate 校验配置
// 折算后的目标容量必须为正，否则缓存无法创建
func (c *Config) Validate() error {
	if c.Cache.DesiredSize < 0 {
		return fmt.Errorf("config: cache.desired_size must not be negative, got %d", c.Cache.DesiredSize)
	}
	if c.Cache.MaxMemoryMB < 0 {
		return fmt.Errorf("config: cache.max_memory_mb must not be negative, got %d", c.Cache.MaxMemoryMB)
	}
	if c.Cache.PruneIntervalSeconds < 0 {
		return fmt.Errorf("config: cache.prune_interval_seconds must not be negative, got %d", c.Cache.PruneIntervalSeconds)
	}
	if c.Cache.CalculateDesiredSize() <= 0 {
		return fmt.Errorf("config: resolved cache capacity is zero")
	}
	return nil
}
