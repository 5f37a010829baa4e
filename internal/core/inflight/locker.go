// Package inflight 提供内容指纹的在途锁
//
// 🎯 **职责**：缩小同一指纹并发铸造的竞态窗口。
// 合约自身的唯一性校验仍是最终裁决；本锁只保证在锁有效期内
// 同一 (合约, 指纹) 只有一个请求进入定价与提交阶段。
//
// 📋 **后端**：
// - memory: 进程内，基于注入时钟过期
// - redis: 跨进程，SET NX + TTL
package inflight

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
)

// Locker 在途锁
type Locker interface {
	// Acquire 原子地获取全部键：要么全部获取成功返回 true，要么一个都不持有
	Acquire(ctx context.Context, keys []string, ttl time.Duration) (bool, error)
	// Release 释放键（不存在的键忽略）
	Release(ctx context.Context, keys []string) error
}

// Keys 构造 (合约, 指纹) 锁键
func Keys(contract common.Address, fingerprints []string) []string {
	keys := make([]string, 0, len(fingerprints))
	for _, fp := range fingerprints {
		keys = append(keys, cache.CombinationKey(contract.Hex(), fp))
	}
	return keys
}
