package ledger

import (
	"time"

	"github.com/weisyn/mintgate/pkg/types"
)

// LedgerOptions 账本RPC配置选项
type LedgerOptions struct {
	RPCURL  string `json:"rpc_url"`
	ChainID uint64 `json:"chain_id"` // 0 表示从节点查询

	RetryTimes       uint          `json:"retry_times"`
	RetryMinInterval time.Duration `json:"retry_min_interval"`
	RetryMaxInterval time.Duration `json:"retry_max_interval"`

	RequestTimeout time.Duration `json:"request_timeout"`
}

// Config 账本配置实现
type Config struct {
	options *LedgerOptions
}

// New 创建账本配置
func New(user *types.UserLedgerConfig) *Config {
	options := &LedgerOptions{
		RPCURL:           defaultRPCURL,
		RetryTimes:       defaultRetryTimes,
		RetryMinInterval: defaultRetryMinInterval,
		RetryMaxInterval: defaultRetryMaxInterval,
		RequestTimeout:   defaultRequestTimeout,
	}

	if user != nil {
		if user.RPCURL != nil {
			options.RPCURL = *user.RPCURL
		}
		if user.ChainID != nil {
			options.ChainID = *user.ChainID
		}
		if user.RetryTimes != nil {
			options.RetryTimes = *user.RetryTimes
		}
		if user.RetryMinIntervalMs != nil {
			options.RetryMinInterval = time.Duration(*user.RetryMinIntervalMs) * time.Millisecond
		}
		if user.RetryMaxIntervalMs != nil {
			options.RetryMaxInterval = time.Duration(*user.RetryMaxIntervalMs) * time.Millisecond
		}
		if user.RequestTimeoutSeconds != nil {
			options.RequestTimeout = time.Duration(*user.RequestTimeoutSeconds) * time.Second
		}
	}

	// 间隔上下界颠倒时交换
	if options.RetryMaxInterval < options.RetryMinInterval {
		options.RetryMinInterval, options.RetryMaxInterval = options.RetryMaxInterval, options.RetryMinInterval
	}

	return &Config{options: options}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *LedgerOptions {
	return c.options
}
