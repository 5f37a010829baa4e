package tx

import (
	"math/big"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/weisyn/mintgate/pkg/types"
)

// TxOptions 交易参数配置选项
type TxOptions struct {
	GasLimitC     uint64 `json:"gas_limit_c"`
	GasPriceC     uint64 `json:"gas_price_c"`
	Confirmations uint64 `json:"confirmations"`

	// GasPriceThresholdGwei 熔断阈值（gwei 十进制字符串），必填
	GasPriceThresholdGwei string `json:"gas_price_threshold_gwei"`
}

// Config 交易配置实现
//
// 熔断阈值支持运行时热更新：SetThresholdGwei 原子替换，Threshold 每次调用读取。
type Config struct {
	options   *TxOptions
	threshold atomic.Pointer[string]
}

// New 创建交易配置
func New(user *types.UserTxConfig) *Config {
	options := &TxOptions{
		GasLimitC:     defaultGasLimitC,
		GasPriceC:     defaultGasPriceC,
		Confirmations: defaultConfirmations,
	}
	if user != nil {
		if user.GasLimitC != nil {
			options.GasLimitC = *user.GasLimitC
		}
		if user.GasPriceC != nil {
			options.GasPriceC = *user.GasPriceC
		}
		if user.Confirmations != nil {
			options.Confirmations = *user.Confirmations
		}
		if user.GasPriceThresholdGwei != nil {
			options.GasPriceThresholdGwei = *user.GasPriceThresholdGwei
		}
	}

	c := &Config{options: options}
	threshold := options.GasPriceThresholdGwei
	c.threshold.Store(&threshold)
	return c
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *TxOptions {
	return c.options
}

// GasLimitC 获取 gas limit 系数
func (c *Config) GasLimitC() uint64 {
	return c.options.GasLimitC
}

// GasPriceC 获取钳制后的 gas 价格系数（不低于100）
func (c *Config) GasPriceC() uint64 {
	return ClampCoefficient(c.options.GasPriceC)
}

// Confirmations 获取确认数
func (c *Config) Confirmations() uint64 {
	return c.options.Confirmations
}

// ThresholdGwei 获取当前熔断阈值（gwei 字符串）
func (c *Config) ThresholdGwei() string {
	return *c.threshold.Load()
}

// SetThresholdGwei 热更新熔断阈值
func (c *Config) SetThresholdGwei(gwei string) error {
	if _, err := GweiToWei(gwei); err != nil {
		return err
	}
	c.threshold.Store(&gwei)
	return nil
}

// Threshold 获取当前熔断阈值（wei）
func (c *Config) Threshold() (*big.Int, error) {
	return GweiToWei(c.ThresholdGwei())
}

// ClampCoefficient 将系数钳制到不低于 100
func ClampCoefficient(c uint64) uint64 {
	if c < minCoefficient {
		return minCoefficient
	}
	return c
}

// GweiToWei 将 gwei 十进制字符串转换为 wei
func GweiToWei(gwei string) (*big.Int, error) {
	d, err := decimal.NewFromString(gwei)
	if err != nil {
		return nil, err
	}
	return d.Shift(9).BigInt(), nil
}

// WeiToGwei 将 wei 格式化为 gwei 十进制字符串
func WeiToGwei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -9).String()
}
