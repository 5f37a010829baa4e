// Package gasprice 计算 gas 报价并执行熔断判定
//
// 报价 = 网络价格 × 系数 / 100，系数低于 100 时按 100 处理，因此报价永不低于网络价格。
// 熔断阈值每次判定时从配置读取，支持运行时热更新。
package gasprice

import (
	"context"
	"math/big"
	"sync/atomic"

	txconfig "github.com/weisyn/mintgate/internal/config/tx"
	"github.com/weisyn/mintgate/internal/core/infrastructure/retry"
	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/types"
)

var hundred = big.NewInt(100)

// PriceObserver 网络价格观察回调
type PriceObserver func(wei *big.Int)

// Policy gas 价格策略
type Policy struct {
	ledger   ledger.Client
	config   *txconfig.Config
	retry    retry.Policy
	logger   log.Logger
	observer atomic.Pointer[PriceObserver]
}

// NewPolicy 创建 gas 价格策略
func NewPolicy(client ledger.Client, config *txconfig.Config, retryPolicy retry.Policy, logger log.Logger) *Policy {
	return &Policy{
		ledger: client,
		config: config,
		retry:  retryPolicy,
		logger: logger,
	}
}

// SetObserver 设置网络价格观察回调
func (p *Policy) SetObserver(observer PriceObserver) {
	p.observer.Store(&observer)
}

// NetworkPrice 查询网络 gas 价格（幂等读，按策略重试）
func (p *Policy) NetworkPrice(ctx context.Context) (*big.Int, error) {
	price, err := retry.Do(ctx, func(ctx context.Context) (*big.Int, error) {
		return p.ledger.GasPrice(ctx)
	}, p.retry, nil)
	if err != nil {
		return nil, err
	}
	if observer := p.observer.Load(); observer != nil && *observer != nil {
		(*observer)(price)
	}
	return price, nil
}

// ComputeGasQuote 计算 gas 报价
//
// coefficient 为 nil 时使用 tx.gas_price_c。
func (p *Policy) ComputeGasQuote(ctx context.Context, coefficient *uint64) (types.GasQuote, error) {
	base, err := p.NetworkPrice(ctx)
	if err != nil {
		return types.GasQuote{}, err
	}
	c := p.config.GasPriceC()
	if coefficient != nil {
		c = *coefficient
	}
	quote := Quote(base, c)
	if p.logger != nil {
		p.logger.Debugf("gas 报价: base=%s gwei c=%d computed=%s gwei",
			FormatGwei(quote.Base), quote.CoefficientPercent, FormatGwei(quote.Computed))
	}
	return quote, nil
}

// Tripped 判定价格是否触发熔断，同时返回当时的阈值
func (p *Policy) Tripped(price *big.Int) (bool, *big.Int, error) {
	threshold, err := p.config.Threshold()
	if err != nil {
		return false, nil, err
	}
	return CircuitBreaker(price, threshold), threshold, nil
}

// Quote 由网络价格与系数计算报价
func Quote(base *big.Int, coefficient uint64) types.GasQuote {
	c := txconfig.ClampCoefficient(coefficient)
	computed := new(big.Int).Mul(base, new(big.Int).SetUint64(c))
	computed.Quo(computed, hundred)
	if computed.Cmp(base) < 0 {
		computed.Set(base)
	}
	return types.GasQuote{
		Base:               new(big.Int).Set(base),
		CoefficientPercent: c,
		Computed:           computed,
	}
}

// CircuitBreaker 价格达到或超过阈值即熔断（含边界）
func CircuitBreaker(price, threshold *big.Int) bool {
	return price.Cmp(threshold) >= 0
}

// ScaleGasLimit 估算值 × gas_limit_c / 100（向下取整）
func ScaleGasLimit(estimate, coefficient uint64) uint64 {
	scaled := new(big.Int).SetUint64(estimate)
	scaled.Mul(scaled, new(big.Int).SetUint64(coefficient))
	scaled.Quo(scaled, hundred)
	if !scaled.IsUint64() {
		return estimate
	}
	return scaled.Uint64()
}

// FormatGwei 以 gwei 字符串展示 wei
func FormatGwei(wei *big.Int) string {
	return txconfig.WeiToGwei(wei)
}
