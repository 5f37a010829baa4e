package ledger

import "time"

// 账本连接默认值
const (
	defaultRPCURL = "http://127.0.0.1:8545"

	// 只读调用重试：3 次，随机间隔 100ms~1s
	defaultRetryTimes       = 3
	defaultRetryMinInterval = 100 * time.Millisecond
	defaultRetryMaxInterval = 1000 * time.Millisecond

	defaultRequestTimeout = 15 * time.Second
)
