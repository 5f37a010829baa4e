// Package storage 定义内存存储接口
//
// 🧠 **内存存储服务 (Memory Storage Service)**
//
// 用于保存不可变的已确认数据（例如已上链交易的回执），
// 条目可带 TTL，超出生命周期窗口后由底层引擎回收。
package storage

import (
	"context"
	"time"
)

// MemoryStore 定义了通用的内存缓存接口
type MemoryStore interface {
	// Get 获取缓存值，返回值、是否存在及可能的错误
	Get(ctx context.Context, key string) (value []byte, exists bool, err error)

	// Set 设置缓存值，ttl 为 0 表示只受生命周期窗口约束
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除指定键
	Delete(ctx context.Context, key string) error

	// Exists 检查键是否存在且未过期
	Exists(ctx context.Context, key string) (bool, error)

	// Count 返回当前条目数（含尚未回收的过期条目）
	Count(ctx context.Context) (int64, error)

	// Close 释放资源
	Close() error
}
