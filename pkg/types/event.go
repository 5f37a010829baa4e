// Package types provides event type definitions.
package types

import (
	"time"

	"github.com/google/uuid"
)

// EventType 事件类型
type EventType string

// 领域事件主题
const (
	// EventTxSubmitted 交易已广播
	EventTxSubmitted EventType = "tx.submitted"
	// EventBreakerTripped 熔断器拒绝了一次提交
	EventBreakerTripped EventType = "breaker.tripped"
	// EventMintDuplicate 铸造因内容指纹重复被拒绝
	EventMintDuplicate EventType = "mint.duplicate"
)

// EventMeta 事件公共字段
type EventMeta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEventMeta 生成事件元信息
func NewEventMeta() EventMeta {
	return EventMeta{ID: uuid.NewString(), Timestamp: time.Now()}
}

// TxSubmittedEvent 交易已广播
type TxSubmittedEvent struct {
	EventMeta
	Operation string `json:"operation"`
	TxHash    string `json:"tx_hash"`
	From      string `json:"from"`
	To        string `json:"to,omitempty"`
}

// BreakerTrippedEvent 熔断器拒绝
type BreakerTrippedEvent struct {
	EventMeta
	Operation    string `json:"operation"`
	PriceWei     string `json:"price_wei"`
	ThresholdWei string `json:"threshold_wei"`
}

// MintDuplicateEvent 重复铸造
type MintDuplicateEvent struct {
	EventMeta
	Contract     string   `json:"contract"`
	Fingerprints []string `json:"fingerprints"`
	// InFlight 为 true 表示被在途锁拦截（尚未上链）
	InFlight bool `json:"in_flight"`
}
