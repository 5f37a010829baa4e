// Package ledger 提供账本 JSON-RPC 客户端
//
// 🎯 **职责**：屏蔽 ethclient 细节，统一超时与错误包装。
// 所有错误都包装 types.ErrLedger，同时保留节点返回的原始信息（例如 revert 原因）。
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	ledgerconfig "github.com/weisyn/mintgate/internal/config/ledger"
	"github.com/weisyn/mintgate/pkg/types"
)

// Client 账本客户端接口
type Client interface {
	// ChainID 链ID（配置优先，否则查询节点并缓存）
	ChainID(ctx context.Context) (*big.Int, error)
	// GasPrice 网络建议 gas 价格（wei）
	GasPrice(ctx context.Context) (*big.Int, error)
	// BlockNumber 最新区块高度
	BlockNumber(ctx context.Context) (uint64, error)
	// EstimateGas 估算 gas 用量
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	// PendingNonce 账户待处理 nonce
	PendingNonce(ctx context.Context, account common.Address) (uint64, error)
	// Send 广播已签名交易
	Send(ctx context.Context, tx *gethtypes.Transaction) error
	// Receipt 交易回执，未找到时返回 nil, nil
	Receipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error)
	// StorageAt 读取合约存储槽（最新块）
	StorageAt(ctx context.Context, account common.Address, slot common.Hash) ([]byte, error)
	// Call 只读调用（最新块）
	Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	// TransactionByHash 查询交易，未找到时返回 nil, false, nil
	TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, bool, error)
	// BlockByHash 查询区块，未找到时返回 nil, nil
	BlockByHash(ctx context.Context, hash common.Hash) (*gethtypes.Block, error)
	// BalanceAt 账户余额，blockNumber 为 nil 时取最新块
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	// Close 关闭连接
	Close()
}

// EthClient 基于 go-ethereum ethclient 的实现
type EthClient struct {
	client  *ethclient.Client
	timeout time.Duration

	chainIDMu sync.Mutex
	chainID   *big.Int
}

// Dial 连接账本节点
func Dial(ctx context.Context, options *ledgerconfig.LedgerOptions) (*EthClient, error) {
	client, err := ethclient.DialContext(ctx, options.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", types.ErrLedger, options.RPCURL, err)
	}

	c := &EthClient{
		client:  client,
		timeout: options.RequestTimeout,
	}
	if options.ChainID != 0 {
		c.chainID = new(big.Int).SetUint64(options.ChainID)
	}
	return c, nil
}

func (c *EthClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func wrap(method string, err error) error {
	return fmt.Errorf("%w: %s: %w", types.ErrLedger, method, err)
}

// ChainID 获取链ID
func (c *EthClient) ChainID(ctx context.Context) (*big.Int, error) {
	c.chainIDMu.Lock()
	defer c.chainIDMu.Unlock()

	if c.chainID != nil {
		return new(big.Int).Set(c.chainID), nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, wrap("eth_chainId", err)
	}
	c.chainID = id
	return new(big.Int).Set(id), nil
}

// GasPrice 获取建议 gas 价格
func (c *EthClient) GasPrice(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	price, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, wrap("eth_gasPrice", err)
	}
	return price, nil
}

// BlockNumber 获取最新区块高度
func (c *EthClient) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	n, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, wrap("eth_blockNumber", err)
	}
	return n, nil
}

// EstimateGas 估算 gas
func (c *EthClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	gas, err := c.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, wrap("eth_estimateGas", err)
	}
	return gas, nil
}

// PendingNonce 获取待处理 nonce
func (c *EthClient) PendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	nonce, err := c.client.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, wrap("eth_getTransactionCount", err)
	}
	return nonce, nil
}

// Send 广播交易
func (c *EthClient) Send(ctx context.Context, tx *gethtypes.Transaction) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.client.SendTransaction(ctx, tx); err != nil {
		return wrap("eth_sendRawTransaction", err)
	}
	return nil
}

// Receipt 获取交易回执
func (c *EthClient) Receipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	receipt, err := c.client.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, wrap("eth_getTransactionReceipt", err)
	}
	return receipt, nil
}

// StorageAt 读取存储槽
func (c *EthClient) StorageAt(ctx context.Context, account common.Address, slot common.Hash) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	value, err := c.client.StorageAt(ctx, account, slot, nil)
	if err != nil {
		return nil, wrap("eth_getStorageAt", err)
	}
	return value, nil
}

// Call 只读调用
func (c *EthClient) Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	out, err := c.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, wrap("eth_call", err)
	}
	return out, nil
}

// TransactionByHash 查询交易
func (c *EthClient) TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	tx, pending, err := c.client.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, false, nil
		}
		return nil, false, wrap("eth_getTransactionByHash", err)
	}
	return tx, pending, nil
}

// BlockByHash 查询区块
func (c *EthClient) BlockByHash(ctx context.Context, hash common.Hash) (*gethtypes.Block, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	block, err := c.client.BlockByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, wrap("eth_getBlockByHash", err)
	}
	return block, nil
}

// BalanceAt 查询余额
func (c *EthClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	balance, err := c.client.BalanceAt(ctx, account, blockNumber)
	if err != nil {
		return nil, wrap("eth_getBalance", err)
	}
	return balance, nil
}

// Close 关闭连接
func (c *EthClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

var _ Client = (*EthClient)(nil)
