// Package event 提供事件总线接口定义
//
// 🎯 **事件总线 (Event Bus)**
//
// 编排器在交易广播、熔断、重复铸造时发布领域事件，
// 订阅者（例如指标收集）与编排器解耦。
package event

import "github.com/weisyn/mintgate/pkg/types"

// EventType 兼容别名
type EventType = types.EventType

// EventBus 事件总线接口
type EventBus interface {
	// Subscribe 同步订阅事件
	Subscribe(eventType EventType, handler interface{}) error
	// SubscribeAsync 异步订阅事件
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error
	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error
	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})
	// HasCallback 检查是否有订阅者
	HasCallback(eventType EventType) bool
	// WaitAsync 等待所有异步处理完成
	WaitAsync()
}
