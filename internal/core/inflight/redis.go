package inflight

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
)

// redisClient Redis 客户端接口（用于依赖注入和测试）
//
// ⚠️ **可见性**：包内私有，生产使用 go-redis，测试使用 mock。
type redisClient interface {
	// SetNX 键不存在时设置
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	// Del 删除键
	Del(ctx context.Context, keys ...string) (int64, error)
	// Ping 测试连接
	Ping(ctx context.Context) error
	// Close 关闭连接
	Close() error
}

// goRedisClient go-redis 客户端实现
type goRedisClient struct {
	client *redis.Client
}

var _ redisClient = (*goRedisClient)(nil)

func newGoRedisClient(options cacheconfig.RedisOptions) (*goRedisClient, error) {
	if options.Addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
		PoolSize: options.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &goRedisClient{client: client}, nil
}

func (c *goRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, value, expiration).Result()
}

func (c *goRedisClient) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return c.client.Del(ctx, keys...).Result()
}

func (c *goRedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *goRedisClient) Close() error {
	return c.client.Close()
}

// RedisLocker 跨进程在途锁
//
// Key 格式：{prefix}{contract},{fingerprint}，值为本进程的持有者标识。
type RedisLocker struct {
	client    redisClient
	keyPrefix string
	owner     string
}

// NewRedisLocker 连接 Redis 并创建在途锁
func NewRedisLocker(options cacheconfig.InflightOptions) (*RedisLocker, error) {
	client, err := newGoRedisClient(options.Redis)
	if err != nil {
		return nil, err
	}
	return newRedisLocker(client, options.KeyPrefix), nil
}

func newRedisLocker(client redisClient, keyPrefix string) *RedisLocker {
	return &RedisLocker{
		client:    client,
		keyPrefix: keyPrefix,
		owner:     uuid.NewString(),
	}
}

// Acquire 逐个 SETNX，任一失败时回滚已获取的键
func (l *RedisLocker) Acquire(ctx context.Context, keys []string, ttl time.Duration) (bool, error) {
	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		ok, err := l.client.SetNX(ctx, l.keyPrefix+key, l.owner, ttl)
		if err != nil {
			l.rollback(acquired)
			return false, fmt.Errorf("redis setnx %s: %w", key, err)
		}
		if !ok {
			l.rollback(acquired)
			return false, nil
		}
		acquired = append(acquired, l.keyPrefix+key)
	}
	return true, nil
}

func (l *RedisLocker) rollback(prefixed []string) {
	if len(prefixed) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = l.client.Del(ctx, prefixed...)
}

// Release 删除键
func (l *RedisLocker) Release(ctx context.Context, keys []string) error {
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, l.keyPrefix+key)
	}
	if _, err := l.client.Del(ctx, prefixed...); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close 关闭连接
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

var _ Locker = (*RedisLocker)(nil)
