// Package ledgertest 提供内存账本替身，供各模块测试使用
//
// Fake 实现 ledger.Client；挂载 AvatarSim 后可按 ABI 解码调用数据，
// 在没有真实链的情况下模拟合约读写。
package ledgertest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/pkg/types"
)

// Fake 内存账本
type Fake struct {
	mu sync.Mutex

	ChainIDValue *big.Int
	Price        *big.Int
	Block        uint64
	GasEstimate  uint64

	// 失败注入
	GasPriceErr error
	EstimateErr error
	SendErr     error
	// BlockNumberFailures 前 N 次 BlockNumber 调用返回 ErrLedger
	BlockNumberFailures int

	// StorageGate 非空时 StorageAt 阻塞到通道关闭或 ctx 取消
	StorageGate chan struct{}

	Nonces   map[common.Address]uint64
	Storage  map[common.Address]map[common.Hash][]byte
	Receipts map[common.Hash]*gethtypes.Receipt
	Txs      map[common.Hash]*gethtypes.Transaction
	Blocks   map[common.Hash]*gethtypes.Block
	Balances map[common.Address]*big.Int

	// Contracts 按地址挂载的合约模拟
	Contracts map[common.Address]*AvatarSim

	Sent []*gethtypes.Transaction

	GasPriceCalls int
	EstimateCalls int
	StorageCalls  int
	CallCount     int
	ReceiptCalls  int
	BlockCalls    int
}

// NewFake 创建内存账本
func NewFake() *Fake {
	return &Fake{
		ChainIDValue: big.NewInt(1337),
		Price:        big.NewInt(1_000_000_000),
		Block:        100,
		GasEstimate:  100_000,
		Nonces:       make(map[common.Address]uint64),
		Storage:      make(map[common.Address]map[common.Hash][]byte),
		Receipts:     make(map[common.Hash]*gethtypes.Receipt),
		Txs:          make(map[common.Hash]*gethtypes.Transaction),
		Blocks:       make(map[common.Hash]*gethtypes.Block),
		Balances:     make(map[common.Address]*big.Int),
		Contracts:    make(map[common.Address]*AvatarSim),
	}
}

var _ ledger.Client = (*Fake)(nil)

// Deploy 在地址上挂载合约模拟
func (f *Fake) Deploy(address common.Address, sim *AvatarSim) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Contracts[address] = sim
}

// SetStorage 设置存储槽
func (f *Fake) SetStorage(address common.Address, slot common.Hash, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Storage[address] == nil {
		f.Storage[address] = make(map[common.Hash][]byte)
	}
	f.Storage[address][slot] = value
}

// SentCount 已广播交易数
func (f *Fake) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// StorageCallCount 已发起的 StorageAt 调用数
func (f *Fake) StorageCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.StorageCalls
}

// Counters 返回 (GasPrice, EstimateGas) 调用次数
func (f *Fake) Counters() (gasPrice, estimate int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GasPriceCalls, f.EstimateCalls
}

func (f *Fake) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.ChainIDValue), nil
}

func (f *Fake) GasPrice(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GasPriceCalls++
	if f.GasPriceErr != nil {
		return nil, f.GasPriceErr
	}
	return new(big.Int).Set(f.Price), nil
}

func (f *Fake) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BlockCalls++
	if f.BlockNumberFailures > 0 {
		f.BlockNumberFailures--
		return 0, fmt.Errorf("%w: eth_blockNumber: connection reset", types.ErrLedger)
	}
	return f.Block, nil
}

func (f *Fake) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EstimateCalls++
	if f.EstimateErr != nil {
		return 0, f.EstimateErr
	}
	if msg.To != nil {
		if sim, ok := f.Contracts[*msg.To]; ok {
			if err := sim.Check(msg.From, msg.Data); err != nil {
				return 0, fmt.Errorf("%w: eth_estimateGas: %w", types.ErrLedger, err)
			}
		}
	}
	return f.GasEstimate, nil
}

func (f *Fake) PendingNonce(_ context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Nonces[account], nil
}

// Send 记录交易；目标是已挂载合约时同步执行并生成回执
func (f *Fake) Send(_ context.Context, tx *gethtypes.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return f.SendErr
	}

	signer := gethtypes.LatestSignerForChainID(f.ChainIDValue)
	from, err := gethtypes.Sender(signer, tx)
	if err != nil {
		return fmt.Errorf("%w: eth_sendRawTransaction: %w", types.ErrLedger, err)
	}
	f.Nonces[from] = tx.Nonce() + 1
	f.Sent = append(f.Sent, tx)
	f.Txs[tx.Hash()] = tx

	receipt := &gethtypes.Receipt{
		Status:      gethtypes.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(f.Block),
		GasUsed:     f.GasEstimate,
	}
	if tx.To() == nil {
		receipt.ContractAddress = crypto.CreateAddress(from, tx.Nonce())
	} else {
		if sim, ok := f.Contracts[*tx.To()]; ok {
			logs, execErr := sim.Execute(from, tx.Data())
			if execErr != nil {
				receipt.Status = gethtypes.ReceiptStatusFailed
			}
			receipt.Logs = logs
		}
	}
	f.Receipts[tx.Hash()] = receipt
	return nil
}

func (f *Fake) Receipt(_ context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReceiptCalls++
	return f.Receipts[hash], nil
}

func (f *Fake) StorageAt(ctx context.Context, account common.Address, slot common.Hash) ([]byte, error) {
	f.mu.Lock()
	f.StorageCalls++
	gate := f.StorageGate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if value, ok := f.Storage[account][slot]; ok {
		return value, nil
	}
	return make([]byte, 32), nil
}

func (f *Fake) Call(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CallCount++
	if msg.To == nil {
		return nil, fmt.Errorf("%w: eth_call: missing target", types.ErrLedger)
	}
	sim, ok := f.Contracts[*msg.To]
	if !ok {
		return nil, nil
	}
	out, err := sim.View(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: eth_call: %w", types.ErrLedger, err)
	}
	return out, nil
}

func (f *Fake) TransactionByHash(_ context.Context, hash common.Hash) (*gethtypes.Transaction, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.Txs[hash]
	if !ok {
		return nil, false, nil
	}
	_, mined := f.Receipts[hash]
	return tx, !mined, nil
}

func (f *Fake) BlockByHash(_ context.Context, hash common.Hash) (*gethtypes.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Blocks[hash], nil
}

func (f *Fake) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if balance, ok := f.Balances[account]; ok {
		return new(big.Int).Set(balance), nil
	}
	return big.NewInt(0), nil
}

func (f *Fake) Close() {}
