package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MintRequest 按内容指纹铸造请求
//
// 每个指纹在合约内全局唯一（内容寻址的幂等键）。
type MintRequest struct {
	Contract     common.Address
	Recipient    common.Address
	Fingerprints []string
}

// MintToRequest 按数量铸造请求
type MintToRequest struct {
	Contract  common.Address
	Recipient common.Address
	Quantity  *big.Int
}

// BatchTransferRequest 批量转移（1 对 1，连续 tokenId 区间）
type BatchTransferRequest struct {
	Contract    common.Address
	From        common.Address
	To          common.Address
	FromTokenID *big.Int
	ToTokenID   *big.Int
	// PrivateKey 可选，十六进制私钥；为空时使用 from 对应的金库密钥
	PrivateKey string
}

// BatchTransferToNRequest 批量转移（1 对 N）
type BatchTransferToNRequest struct {
	Contract   common.Address
	From       common.Address
	To         []common.Address
	TokenIDs   []*big.Int
	PrivateKey string
}

// BatchBurnRequest 批量销毁
type BatchBurnRequest struct {
	Contract    common.Address
	FromTokenID *big.Int
	ToTokenID   *big.Int
	// PrivateKey 可选；为空时使用合约所有者密钥
	PrivateKey string
}

// DeployRequest 部署合约请求
type DeployRequest struct {
	Name         string
	Symbol       string
	BaseTokenURI string
	MaxSupply    *big.Int
	PrivateKey   string
	Wait         bool
	// GasPriceC 请求级 gas 价格系数，为空时使用配置
	GasPriceC   *uint64
	Upgradeable bool
}

// NativeTransferRequest 原生币转账
type NativeTransferRequest struct {
	From       common.Address
	To         common.Address
	Amount     *big.Int
	PrivateKey string
	// Force 跳过熔断检查
	Force bool
}
