// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/benbjohnson/clock"

	memoryconfig "github.com/weisyn/mintgate/internal/config/storage/memory"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/mintgate/pkg/interfaces/infrastructure/storage"
)

// expiryHeaderSize 值前缀：8字节过期时间（UnixNano，0 表示不过期）
const expiryHeaderSize = 8

// ErrStoreClosed 存储已关闭
var ErrStoreClosed = errors.New("memory store closed")

// Store 实现了MemoryStore接口，基于BigCache提供内存缓存功能
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	clock  clock.Clock

	mutex  sync.RWMutex
	closed bool
}

// New 创建一个新的BigCache内存存储实例
func New(options *memoryconfig.MemoryOptions, logger log.Logger, clk clock.Clock) (storage.MemoryStore, error) {
	if options == nil {
		options = memoryconfig.New(nil).GetOptions()
	}
	if clk == nil {
		clk = clock.New()
	}

	bigCacheConfig := bigcache.DefaultConfig(options.LifeWindow)
	bigCacheConfig.CleanWindow = options.CleanWindow
	bigCacheConfig.Shards = options.Shards
	bigCacheConfig.MaxEntriesInWindow = options.MaxEntriesInWindow
	bigCacheConfig.MaxEntrySize = options.MaxEntrySize
	bigCacheConfig.HardMaxCacheSize = options.MaxCacheSizeMB
	bigCacheConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	if logger != nil {
		logger.Infof("内存存储已创建: shards=%d life_window=%s max_size_mb=%d",
			options.Shards, options.LifeWindow, options.MaxCacheSizeMB)
	}

	return &Store{
		cache:  cache,
		logger: logger,
		clock:  clk,
	}, nil
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	err := s.cache.Close()
	if err == nil {
		s.closed = true
	}
	return err
}

// Get 获取缓存值
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, false, ErrStoreClosed
	}

	raw, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		s.warnf("获取缓存键[%s]失败: %v", key, err)
		return nil, false, err
	}
	if len(raw) < expiryHeaderSize {
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	expiresAt := int64(binary.LittleEndian.Uint64(raw[:expiryHeaderSize]))
	if expiresAt != 0 && s.clock.Now().UnixNano() >= expiresAt {
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	value := make([]byte, len(raw)-expiryHeaderSize)
	copy(value, raw[expiryHeaderSize:])
	return value, true, nil
}

// Set 设置缓存值，可指定过期时间
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.clock.Now().Add(ttl).UnixNano()
	}

	raw := make([]byte, expiryHeaderSize+len(value))
	binary.LittleEndian.PutUint64(raw[:expiryHeaderSize], uint64(expiresAt))
	copy(raw[expiryHeaderSize:], value)

	if err := s.cache.Set(key, raw); err != nil {
		s.warnf("设置缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Delete 删除指定键的缓存
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		s.warnf("删除缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, exists, err := s.Get(ctx, key)
	return exists, err
}

// Count 返回条目数
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return int64(s.cache.Len()), nil
}

func (s *Store) warnf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warnf(format, args...)
	}
}
