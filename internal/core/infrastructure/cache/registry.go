// Package cache 提供按名称管理的响应缓存
//
// 每个命名缓存拥有独立的 TTL 与 LRU 容量。条目在 now-insertedAt >= ttl 时视为过期，
// ttl 为 0 表示永不过期。注册表并发安全，同一键后写覆盖先写。
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
)

// Observer 命中/未命中观察回调
type Observer func(cache string, hit bool)

// entry 缓存条目
type entry struct {
	value      interface{}
	insertedAt time.Time
}

// namedCache 单个命名缓存
type namedCache struct {
	ttl   time.Duration
	items *lru.Cache[string, entry]
}

// Registry 命名缓存注册表
type Registry struct {
	mu       sync.Mutex
	config   *cacheconfig.Config
	clock    clock.Clock
	caches   map[string]*namedCache
	observer Observer
}

// NewRegistry 创建缓存注册表
//
// 命名缓存在首次访问时按配置创建。
func NewRegistry(config *cacheconfig.Config, clk clock.Clock) *Registry {
	if config == nil {
		config = cacheconfig.New(nil)
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Registry{
		config: config,
		clock:  clk,
		caches: make(map[string]*namedCache),
	}
}

// SetObserver 设置命中观察回调
func (r *Registry) SetObserver(observer Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = observer
}

// named 获取或创建命名缓存
func (r *Registry) named(name string) *namedCache {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.caches[name]; ok {
		return c
	}

	opts := r.config.Entry(name)
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = 1
	}
	// lru.New 只在容量非正时报错
	items, _ := lru.New[string, entry](capacity)
	c := &namedCache{ttl: opts.TTL, items: items}
	r.caches[name] = c
	return c
}

func (r *Registry) observe(name string, hit bool) {
	r.mu.Lock()
	observer := r.observer
	r.mu.Unlock()
	if observer != nil {
		observer(name, hit)
	}
}

// Get 读取缓存，过期条目被删除并视为未命中
func (r *Registry) Get(name, key string) (interface{}, bool) {
	c := r.named(name)
	e, ok := c.items.Get(key)
	if ok && c.ttl > 0 && r.clock.Since(e.insertedAt) >= c.ttl {
		c.items.Remove(key)
		ok = false
	}
	r.observe(name, ok)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set 写入缓存
func (r *Registry) Set(name, key string, value interface{}) {
	c := r.named(name)
	c.items.Add(key, entry{value: value, insertedAt: r.clock.Now()})
}

// Delete 删除缓存条目
func (r *Registry) Delete(name, key string) {
	r.named(name).items.Remove(key)
}

// Len 命名缓存当前条目数（含尚未清理的过期条目）
func (r *Registry) Len(name string) int {
	return r.named(name).items.Len()
}

// Purge 清空命名缓存
func (r *Registry) Purge(name string) {
	r.named(name).items.Purge()
}

// GetTyped 读取并断言类型，类型不符视为未命中
func GetTyped[T any](r *Registry, name, key string) (T, bool) {
	var zero T
	v, ok := r.Get(name, key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// GetOrLoad 命中直接返回，否则调用 loader
//
// loader 出错时不写缓存；keep 不为 nil 时只缓存 keep 返回 true 的结果。
func GetOrLoad[T any](ctx context.Context, r *Registry, name, key string, loader func(ctx context.Context) (T, error), keep func(T) bool) (T, error) {
	if v, ok := GetTyped[T](r, name, key); ok {
		return v, nil
	}
	v, err := loader(ctx)
	if err != nil {
		return v, err
	}
	if keep == nil || keep(v) {
		r.Set(name, key, v)
	}
	return v, nil
}

// CombinationKey 按参数顺序拼接缓存键，顺序有意义
func CombinationKey(parts ...string) string {
	return strings.Join(parts, ",")
}
