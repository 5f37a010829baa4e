// 基于asaskevich/EventBus的事件总线实现

package event

import (
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"

	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// EventBus 是asaskevich/EventBus的薄封装
//
// 额外记录发布计数，处理器 panic 不会传播到发布方。
type EventBus struct {
	bus       evbus.Bus
	logger    log.Logger
	published atomic.Uint64
}

// New 创建事件总线实例
func New(logger log.Logger) *EventBus {
	return &EventBus{
		bus:    evbus.New(),
		logger: logger,
	}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Subscribe(string(eventType), handler)
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// Publish 发布事件
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	defer func() {
		if r := recover(); r != nil && eb.logger != nil {
			eb.logger.Errorf("事件处理器异常: type=%s panic=%v", eventType, r)
		}
	}()
	eb.published.Add(1)
	eb.bus.Publish(string(eventType), args...)
}

// HasCallback 检查是否有回调函数
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	return eb.bus.HasCallback(string(eventType))
}

// WaitAsync 等待所有异步处理完成
func (eb *EventBus) WaitAsync() {
	eb.bus.WaitAsync()
}

// Published 已发布事件数
func (eb *EventBus) Published() uint64 {
	return eb.published.Load()
}

var _ event.EventBus = (*EventBus)(nil)
