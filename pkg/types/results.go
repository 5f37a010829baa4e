package types

import (
	"math/big"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// SubmittedTx 已提交交易
type SubmittedTx struct {
	TxHash string                 `json:"txHash"`
	Tx     *gethtypes.Transaction `json:"tx"`
}

// DuplicateMint 重复铸造结果（返回已存在的 tokenId）
type DuplicateMint struct {
	Status   uint64     `json:"status"`
	TokenIDs []*big.Int `json:"tokenId"`
}

// MintResult 铸造结果
//
// 成功时 Submitted 非空，重复时 Duplicate 非空。
type MintResult struct {
	*SubmittedTx
	*DuplicateMint
}

// MintReceipt 铸造回执
type MintReceipt struct {
	TokenIDs []*big.Int         `json:"tokenId"`
	Status   uint64             `json:"status"`
	Receipt  *gethtypes.Receipt `json:"receipt"`
}

// TotalSupply 总供应量
type TotalSupply struct {
	TotalSupply string `json:"totalSupply"`
	BlockNumber uint64 `json:"blockNumber"`
}

// GasFee 预估手续费（wei）
type GasFee struct {
	GasFee string `json:"gasFee"`
}

// TokenID 代币ID
type TokenID struct {
	TokenID *big.Int `json:"tokenId"`
}

// ContractInfo 合约信息
type ContractInfo struct {
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Supply   *big.Int `json:"supply"`
	Owner    string   `json:"owner"`
	Address  string   `json:"address"`
	Mintable int      `json:"mintable"`
	Burnable int      `json:"burnable"`
	Deploy   int      `json:"deploy"`
}

// TokenInfo 代币信息
type TokenInfo struct {
	TokenURI    string `json:"tokenURI,omitempty"`
	ContentHash string `json:"contentHash,omitempty"`
}

// Symbol 合约符号
type Symbol struct {
	Symbol string `json:"symbol"`
}

// Owner 所有者地址
type Owner struct {
	Owner string `json:"owner"`
}

// MaxSupply 最大供应量
type MaxSupply struct {
	MaxSupply *big.Int `json:"maxSupply"`
}

// Balance 余额
type Balance struct {
	Balance *big.Int `json:"balance"`
}

// ProxyInfo 代理解析结果
type ProxyInfo struct {
	Address        string `json:"address"`
	IsProxy        bool   `json:"isProxy"`
	Implementation string `json:"implementation,omitempty"`
}

// DeployResult 部署结果
type DeployResult struct {
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	BaseTokenURI   string `json:"baseTokenURI"`
	Address        string `json:"address"`
	TxHash         string `json:"txHash"`
	Implementation string `json:"implementation,omitempty"`
	ProxyAdmin     string `json:"proxyAdmin,omitempty"`
	Deployed       bool   `json:"deployed"`
}

// TransferResult 原生转账结果
type TransferResult struct {
	TxHash string `json:"txHash"`
}

// GasPrice 当前 gas 价格
type GasPrice struct {
	Price string `json:"price"`
	Gwei  string `json:"gwei"`
}

// TxReceipt 交易回执（附带交易金额）
type TxReceipt struct {
	Status  uint64             `json:"status"`
	Value   string             `json:"value"`
	Receipt *gethtypes.Receipt `json:"receipt"`
}

// BlockNumber 区块高度
type BlockNumber struct {
	BlockNumber uint64 `json:"blockNumber"`
}

// BlockInfo 区块摘要
type BlockInfo struct {
	Hash         string   `json:"hash"`
	Number       uint64   `json:"number"`
	ParentHash   string   `json:"parentHash"`
	Timestamp    uint64   `json:"timestamp"`
	GasLimit     uint64   `json:"gasLimit"`
	GasUsed      uint64   `json:"gasUsed"`
	Miner        string   `json:"miner"`
	Transactions []string `json:"transactions"`
}

// AccountBalance 账户余额
type AccountBalance struct {
	Address     string `json:"address"`
	Balance     string `json:"balance"`
	Ether       string `json:"ether"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

// Verified 校验结果
type Verified struct {
	Verified bool `json:"verified"`
}

// Wallet 钱包
type Wallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey,omitempty"`
	Mnemonic   string `json:"mnemonic,omitempty"`
	Path       string `json:"path,omitempty"`
}

// JSONWallet keystore V3 JSON 钱包
type JSONWallet struct {
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic,omitempty"`
	JSON     string `json:"json"`
}
