package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/event"
)

// Module 返回 metrics 模块的 fx.Option
//
// 提供：
// - *Metrics: 业务指标（注册在默认注册器）
// - prometheus.Gatherer: /metrics 输出源
//
// 启动时把缓存命中回调与领域事件订阅接到指标上。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			func() prometheus.Registerer { return prometheus.DefaultRegisterer },
			func() prometheus.Gatherer { return prometheus.DefaultGatherer },
			New,
		),
		fx.Invoke(Wire),
	)
}

// WireInput 指标接线依赖
type WireInput struct {
	fx.In

	Metrics  *Metrics
	Registry *cache.Registry `optional:"true"`
	EventBus event.EventBus  `optional:"true"`
}

// Wire 接线缓存观察者与事件订阅
func Wire(input WireInput) error {
	if input.Registry != nil {
		input.Registry.SetObserver(input.Metrics.ObserveCache)
	}
	if input.EventBus != nil {
		return input.Metrics.RegisterEventSubscribers(input.EventBus)
	}
	return nil
}
