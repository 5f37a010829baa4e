package types

import "errors"

// 错误分类
//
// 调用方使用 fmt.Errorf("...: %w", err) 包装，编排层边界统一转换为 Outcome 结果码。
var (
	// ErrConfiguration 配置错误（启动时致命，不在请求中处理）
	ErrConfiguration = errors.New("configuration error")

	// ErrEmptyPool 签名身份池为空
	ErrEmptyPool = errors.New("signing identity pool is empty")

	// ErrNotFound 地址/内容/代币不存在
	ErrNotFound = errors.New("not found")

	// ErrKeyNotFound 密钥库中找不到签名密钥
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidKeyRef 签名身份缺少密钥引用
	ErrInvalidKeyRef = errors.New("invalid keystore reference")

	// ErrThresholdExceeded gas 价格熔断
	ErrThresholdExceeded = errors.New("gas price exceeds threshold")

	// ErrDuplicate 内容指纹重复
	ErrDuplicate = errors.New("duplicate content hash")

	// ErrInFlight 内容指纹正在铸造中
	ErrInFlight = errors.New("content hash is being minted")

	// ErrLedger 账本 RPC 失败或 revert
	ErrLedger = errors.New("ledger error")

	// ErrInvalidArgument 请求参数非法
	ErrInvalidArgument = errors.New("invalid argument")
)
