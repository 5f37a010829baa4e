// Package metrics 提供业务指标收集
//
// 📋 **指标清单**：
// - mintgate_outcomes_total{operation,code}: 各操作的结果码分布
// - mintgate_breaker_trips_total{operation}: 熔断次数
// - mintgate_tx_submitted_total{operation}: 已广播交易数
// - mintgate_mint_duplicates_total{kind}: 重复铸造（onchain / inflight）
// - mintgate_gas_price_gwei: 最近一次观测到的网络 gas 价格
// - mintgate_cache_requests_total{cache,result}: 响应缓存命中情况
package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintgate/pkg/types"
)

const namespace = "mintgate"

// Metrics 业务指标集合
type Metrics struct {
	Outcomes       *prometheus.CounterVec
	BreakerTrips   *prometheus.CounterVec
	TxSubmitted    *prometheus.CounterVec
	MintDuplicates *prometheus.CounterVec
	GasPriceGwei   prometheus.Gauge
	CacheRequests  *prometheus.CounterVec
}

// New 在指定注册器上创建指标
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Operation outcomes by result code",
		}, []string{"operation", "code"}),
		BreakerTrips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_trips_total",
			Help:      "Submissions rejected by the gas price circuit breaker",
		}, []string{"operation"}),
		TxSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_submitted_total",
			Help:      "Transactions broadcast to the ledger",
		}, []string{"operation"}),
		MintDuplicates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mint_duplicates_total",
			Help:      "Mint requests rejected for duplicate fingerprints",
		}, []string{"kind"}),
		GasPriceGwei: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gas_price_gwei",
			Help:      "Last observed network gas price in gwei",
		}),
		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Response cache lookups by result",
		}, []string{"cache", "result"}),
	}
}

// ObserveOutcome 记录操作结果码
func (m *Metrics) ObserveOutcome(operation string, code types.ResultCode) {
	m.Outcomes.WithLabelValues(operation, string(code)).Inc()
}

// ObserveCache 记录缓存命中，签名与 cache.Observer 一致
func (m *Metrics) ObserveCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(cache, result).Inc()
}

// ObserveGasPrice 记录网络 gas 价格（wei）
func (m *Metrics) ObserveGasPrice(wei *big.Int) {
	if wei == nil {
		return
	}
	gwei, _ := decimal.NewFromBigInt(wei, -9).Float64()
	m.GasPriceGwei.Set(gwei)
}

// RegisterEventSubscribers 将领域事件转换为计数
func (m *Metrics) RegisterEventSubscribers(bus event.EventBus) error {
	if err := bus.Subscribe(types.EventTxSubmitted, func(e types.TxSubmittedEvent) {
		m.TxSubmitted.WithLabelValues(e.Operation).Inc()
	}); err != nil {
		return err
	}
	if err := bus.Subscribe(types.EventBreakerTripped, func(e types.BreakerTrippedEvent) {
		m.BreakerTrips.WithLabelValues(e.Operation).Inc()
	}); err != nil {
		return err
	}
	return bus.Subscribe(types.EventMintDuplicate, func(e types.MintDuplicateEvent) {
		kind := "onchain"
		if e.InFlight {
			kind = "inflight"
		}
		m.MintDuplicates.WithLabelValues(kind).Inc()
	})
}
