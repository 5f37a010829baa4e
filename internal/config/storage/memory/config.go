package memory

import (
	"time"

	"github.com/weisyn/mintgate/pkg/types"
)

// MemoryOptions 内存存储配置选项
type MemoryOptions struct {
	LifeWindow         time.Duration `json:"life_window"`
	CleanWindow        time.Duration `json:"clean_window"`
	MaxCacheSizeMB     int           `json:"max_cache_size_mb"`
	Shards             int           `json:"shards"`
	MaxEntriesInWindow int           `json:"max_entries_in_window"`
	MaxEntrySize       int           `json:"max_entry_size"`
}

// Config 内存存储配置实现
type Config struct {
	options *MemoryOptions
}

// New 创建内存存储配置
func New(user *types.UserMemoryStorageConfig) *Config {
	options := &MemoryOptions{
		LifeWindow:         defaultLifeWindow,
		CleanWindow:        defaultCleanWindow,
		MaxCacheSizeMB:     defaultMaxCacheSizeMB,
		Shards:             defaultShards,
		MaxEntriesInWindow: defaultMaxEntriesInWindow,
		MaxEntrySize:       defaultMaxEntrySize,
	}
	if user != nil {
		if user.LifeWindowSeconds != nil && *user.LifeWindowSeconds > 0 {
			options.LifeWindow = time.Duration(*user.LifeWindowSeconds) * time.Second
		}
		if user.MaxCacheSizeMB != nil {
			options.MaxCacheSizeMB = *user.MaxCacheSizeMB
		}
		if user.Shards != nil && isPowerOfTwo(*user.Shards) {
			options.Shards = *user.Shards
		}
	}
	return &Config{options: options}
}

// isPowerOfTwo bigcache 要求分片数为2的幂
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// GetOptions 获取完整的内存存储配置选项
func (c *Config) GetOptions() *MemoryOptions {
	return c.options
}
