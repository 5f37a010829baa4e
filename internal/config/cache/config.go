package cache

import (
	"time"

	"github.com/weisyn/mintgate/pkg/types"
)

// RedisOptions Redis 连接配置
type RedisOptions struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

// InflightOptions 在途指纹锁配置
type InflightOptions struct {
	Backend   string        `json:"backend"`
	TTL       time.Duration `json:"ttl"`
	KeyPrefix string        `json:"key_prefix"`
	Redis     RedisOptions  `json:"redis"`
}

// CacheOptions 缓存配置选项
type CacheOptions struct {
	Entries  map[string]EntryOptions `json:"entries"`
	Inflight InflightOptions         `json:"inflight"`
}

// Config 缓存配置实现
type Config struct {
	options *CacheOptions
}

// New 创建缓存配置
func New(user *types.UserCacheConfig) *Config {
	options := &CacheOptions{
		Entries: make(map[string]EntryOptions, len(defaultEntries)),
		Inflight: InflightOptions{
			Backend:   defaultInflightBackend,
			TTL:       defaultInflightTTL,
			KeyPrefix: defaultInflightKeyPrefix,
			Redis: RedisOptions{
				Addr:     defaultRedisAddr,
				PoolSize: defaultRedisPoolSize,
			},
		},
	}
	for name, entry := range defaultEntries {
		options.Entries[name] = entry
	}

	if user != nil {
		for name, entry := range user.Entries {
			current, ok := options.Entries[name]
			if !ok {
				current = EntryOptions{TTL: defaultTTL, Capacity: defaultCapacity}
			}
			if entry.TTLMs != nil {
				current.TTL = time.Duration(*entry.TTLMs) * time.Millisecond
			}
			if entry.Capacity != nil {
				current.Capacity = *entry.Capacity
			}
			options.Entries[name] = current
		}
		applyInflight(&options.Inflight, user.Inflight)
	}

	return &Config{options: options}
}

// applyInflight 应用在途锁用户配置
func applyInflight(options *InflightOptions, user *types.UserInflightConfig) {
	if user == nil {
		return
	}
	if user.Backend != nil {
		options.Backend = *user.Backend
	}
	if user.TTLSeconds != nil {
		options.TTL = time.Duration(*user.TTLSeconds) * time.Second
	}
	if user.KeyPrefix != nil {
		options.KeyPrefix = *user.KeyPrefix
	}
	if r := user.Redis; r != nil {
		if r.Addr != nil {
			options.Redis.Addr = *r.Addr
		}
		if r.Password != nil {
			options.Redis.Password = *r.Password
		}
		if r.DB != nil {
			options.Redis.DB = *r.DB
		}
		if r.PoolSize != nil {
			options.Redis.PoolSize = *r.PoolSize
		}
	}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *CacheOptions {
	return c.options
}

// Entry 获取命名缓存参数，未登记时返回兜底值（1分钟/10条）
func (c *Config) Entry(name string) EntryOptions {
	if entry, ok := c.options.Entries[name]; ok {
		return entry
	}
	return EntryOptions{TTL: defaultTTL, Capacity: defaultCapacity}
}
