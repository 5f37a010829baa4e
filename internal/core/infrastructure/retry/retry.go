// Package retry 提供带随机抖动的有限重试
//
// 只允许包装幂等读操作（询价、估算、查询），交易提交永远不经过这里。
package retry

import (
	"context"
	"math/rand/v2"
	"time"

	retrygo "github.com/avast/retry-go/v4"

	ledgerconfig "github.com/weisyn/mintgate/internal/config/ledger"
)

// Policy 重试策略
type Policy struct {
	// Attempts 总尝试次数（含首次），小于1时按1处理
	Attempts uint
	// MinInterval/MaxInterval 两次尝试之间的等待区间，均匀随机
	MinInterval time.Duration
	MaxInterval time.Duration
	// ThrowOnExhaustion 为 false 时耗尽后返回 fallback 且不报错
	ThrowOnExhaustion bool
	// OnRetry 每次失败后的回调（可选）
	OnRetry func(attempt uint, err error)
}

// FromLedgerOptions 从账本配置构造重试策略
func FromLedgerOptions(opts *ledgerconfig.LedgerOptions) Policy {
	return Policy{
		Attempts:          opts.RetryTimes,
		MinInterval:       opts.RetryMinInterval,
		MaxInterval:       opts.RetryMaxInterval,
		ThrowOnExhaustion: true,
	}
}

// Do 按策略执行 op
//
// 成功立即返回；耗尽后按 ThrowOnExhaustion 决定返回最后一次错误还是 fallback。
// ctx 取消时总是返回 ctx 的错误。
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), policy Policy, fallback T) (T, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	opts := []retrygo.Option{
		retrygo.Context(ctx),
		retrygo.Attempts(attempts),
		retrygo.LastErrorOnly(true),
		retrygo.DelayType(func(_ uint, _ error, _ *retrygo.Config) time.Duration {
			return Jitter(policy.MinInterval, policy.MaxInterval)
		}),
	}
	if policy.OnRetry != nil {
		opts = append(opts, retrygo.OnRetry(func(n uint, err error) {
			policy.OnRetry(n+1, err)
		}))
	}

	result, err := retrygo.DoWithData(func() (T, error) {
		return op(ctx)
	}, opts...)
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fallback, ctxErr
	}
	if policy.ThrowOnExhaustion {
		return fallback, err
	}
	return fallback, nil
}

// Permanent 标记不可重试的错误，Do 遇到后立即停止
func Permanent(err error) error {
	return retrygo.Unrecoverable(err)
}

// Jitter 返回 [min, max] 内的均匀随机时长
func Jitter(min, max time.Duration) time.Duration {
	if max < min {
		min, max = max, min
	}
	if min < 0 {
		min = 0
	}
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int64N(int64(max-min)+1))
}
