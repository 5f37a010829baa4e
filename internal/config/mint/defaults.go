package mint

// 铸造配置默认值
const (
	defaultRandomMinter    = false
	defaultStrictReceipt   = false
	defaultMaxSupplyReason = "reach the max supply"
)

// 对外数字结果码（与既有客户端保持一致）
const (
	defaultCodeOK        = 200
	defaultCodeDuplicate = 201
	defaultCodeThreshold = 202
	defaultCodeNotFound  = 404
	defaultCodeError     = 500
	defaultCodeMaxSupply = 555
)
