package tx

// 交易参数默认值
const (
	// defaultGasLimitC 估算 gas 的缓冲系数 120%
	defaultGasLimitC = 120

	// defaultGasPriceC gas 价格浮动系数 100%（不上浮）
	defaultGasPriceC = 100

	// minCoefficient 系数下限，价格与 gas limit 都不得低于市场值/估算值
	minCoefficient = 100

	// defaultConfirmations 原生转账等待的确认数
	defaultConfirmations = 1
)
