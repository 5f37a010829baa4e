package network

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/internal/core/gasprice"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/internal/core/orchestrator"
	"github.com/weisyn/mintgate/internal/core/receipt"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/types"
)

// Service 链查询服务
type Service struct {
	ledger   ledger.Client
	gas      *gasprice.Policy
	receipts *receipt.Store
	cache    *cache.Registry
	logger   log.Logger
}

// NewService 创建链查询服务
func NewService(client ledger.Client, gas *gasprice.Policy, receipts *receipt.Store, registry *cache.Registry, logger log.Logger) *Service {
	return &Service{
		ledger:   client,
		gas:      gas,
		receipts: receipts,
		cache:    registry,
		logger:   logger,
	}
}

func (s *Service) log(ctx context.Context) log.Logger {
	return logimpl.FromContext(ctx, s.logger)
}

// outcome 错误归一化
func outcome[T any](ctx context.Context, s *Service, operation string, data T, err error) types.Outcome[T] {
	if err != nil {
		code, msg := orchestrator.Normalize(err, "")
		if code == types.CodeError {
			s.log(ctx).Errorf("%s failed: %v", operation, err)
		}
		return types.Fail[T](code, msg)
	}
	return types.OK(data, "")
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", types.ErrNotFound, what)
}

// GasPrice 当前网络 gas 价格
func (s *Service) GasPrice(ctx context.Context) types.Outcome[*types.GasPrice] {
	price, err := s.gas.NetworkPrice(ctx)
	if err != nil {
		return outcome[*types.GasPrice](ctx, s, "GasPrice", nil, err)
	}
	return outcome(ctx, s, "GasPrice", &types.GasPrice{Price: price.String(), Gwei: gasprice.FormatGwei(price)}, nil)
}

// TxReceipt 交易回执，附带交易金额
func (s *Service) TxReceipt(ctx context.Context, hash common.Hash) types.Outcome[*types.TxReceipt] {
	result, err := s.txReceipt(ctx, hash)
	return outcome(ctx, s, "TxReceipt", result, err)
}

func (s *Service) txReceipt(ctx context.Context, hash common.Hash) (*types.TxReceipt, error) {
	r, err := s.receipts.Lookup(ctx, hash)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: receipt %s", types.ErrNotFound, hash.Hex())
	}
	tx, _, err := s.ledger.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	value := "0"
	if tx != nil {
		value = tx.Value().String()
	}
	s.log(ctx).Infof("receipt: tx=%s status=%d value=%s", hash.Hex(), r.Status, value)
	return &types.TxReceipt{Status: r.Status, Value: value, Receipt: r}, nil
}

// Tx 交易详情（TxResponse 缓存，仅缓存成功结果）
func (s *Service) Tx(ctx context.Context, hash common.Hash) types.Outcome[*gethtypes.Transaction] {
	result, err := cache.GetOrLoad(ctx, s.cache, cacheconfig.NameTxResponse, hash.Hex(),
		func(ctx context.Context) (types.Outcome[*gethtypes.Transaction], error) {
			tx, _, err := s.ledger.TransactionByHash(ctx, hash)
			if err == nil && tx == nil {
				err = notFound("tx " + hash.Hex())
			}
			return outcome(ctx, s, "Tx", tx, err), nil
		}, isOK[*gethtypes.Transaction])
	if err != nil {
		return outcome[*gethtypes.Transaction](ctx, s, "Tx", nil, err)
	}
	return result
}

// BlockNumber 当前区块高度
func (s *Service) BlockNumber(ctx context.Context) types.Outcome[*types.BlockNumber] {
	n, err := s.ledger.BlockNumber(ctx)
	if err != nil {
		return outcome[*types.BlockNumber](ctx, s, "BlockNumber", nil, err)
	}
	return outcome(ctx, s, "BlockNumber", &types.BlockNumber{BlockNumber: n}, nil)
}

// Block 按哈希查询区块摘要
func (s *Service) Block(ctx context.Context, hash common.Hash) types.Outcome[*types.BlockInfo] {
	block, err := s.ledger.BlockByHash(ctx, hash)
	if err == nil && block == nil {
		err = notFound("block " + hash.Hex())
	}
	if err != nil {
		return outcome[*types.BlockInfo](ctx, s, "Block", nil, err)
	}
	return outcome(ctx, s, "Block", summarize(block), nil)
}

func summarize(block *gethtypes.Block) *types.BlockInfo {
	txs := make([]string, 0, len(block.Transactions()))
	for _, tx := range block.Transactions() {
		txs = append(txs, tx.Hash().Hex())
	}
	return &types.BlockInfo{
		Hash:         block.Hash().Hex(),
		Number:       block.NumberU64(),
		ParentHash:   block.ParentHash().Hex(),
		Timestamp:    block.Time(),
		GasLimit:     block.GasLimit(),
		GasUsed:      block.GasUsed(),
		Miner:        block.Coinbase().Hex(),
		Transactions: txs,
	}
}

// Balance 账户余额；blockHash 非空时查询该区块时的余额
func (s *Service) Balance(ctx context.Context, address string, blockHash string) types.Outcome[*types.AccountBalance] {
	result, err := s.balance(ctx, address, blockHash)
	return outcome(ctx, s, "Balance", result, err)
}

func (s *Service) balance(ctx context.Context, address string, blockHash string) (*types.AccountBalance, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: invalid address %q", types.ErrInvalidArgument, address)
	}
	var number *big.Int
	if blockHash != "" {
		block, err := s.ledger.BlockByHash(ctx, common.HexToHash(blockHash))
		if err != nil {
			return nil, err
		}
		if block == nil {
			return nil, notFound("block " + blockHash)
		}
		number = block.Number()
	}
	account := common.HexToAddress(address)
	wei, err := s.ledger.BalanceAt(ctx, account, number)
	if err != nil {
		return nil, err
	}
	result := &types.AccountBalance{
		Address: account.Hex(),
		Balance: wei.String(),
		Ether:   formatEther(wei),
	}
	if number != nil {
		result.BlockNumber = number.Uint64()
	}
	return result, nil
}

// Observer 余额观察（balanceObserver 缓存，附带当前区块高度）
func (s *Service) Observer(ctx context.Context, address string) types.Outcome[*types.AccountBalance] {
	result, err := cache.GetOrLoad(ctx, s.cache, cacheconfig.NameBalanceObserver, address,
		func(ctx context.Context) (types.Outcome[*types.AccountBalance], error) {
			balance, err := s.balance(ctx, address, "")
			if err == nil {
				balance.BlockNumber, err = s.ledger.BlockNumber(ctx)
			}
			return outcome(ctx, s, "Observer", balance, err), nil
		}, isOK[*types.AccountBalance])
	if err != nil {
		return outcome[*types.AccountBalance](ctx, s, "Observer", nil, err)
	}
	return result
}

// VerifySignature 校验 EIP-191 personal message 签名
//
// 缓存键为 address+msg+sig；签名格式错误返回 ERROR，签名人不符返回 verified=false。
func (s *Service) VerifySignature(ctx context.Context, address, msg, sig string) types.Outcome[*types.Verified] {
	result, err := cache.GetOrLoad(ctx, s.cache, cacheconfig.NameVerifySignature, address+msg+sig,
		func(ctx context.Context) (types.Outcome[*types.Verified], error) {
			verified, err := VerifySignature(address, msg, sig)
			if err != nil {
				return outcome[*types.Verified](ctx, s, "VerifySignature", nil, err), nil
			}
			return outcome(ctx, s, "VerifySignature", &types.Verified{Verified: verified}, nil), nil
		}, isOK[*types.Verified])
	if err != nil {
		return outcome[*types.Verified](ctx, s, "VerifySignature", nil, err)
	}
	return result
}

// VerifyAddress 校验地址格式（混合大小写时校验 EIP-55 校验和）
func (s *Service) VerifyAddress(ctx context.Context, address string) types.Outcome[*types.Verified] {
	result, _ := cache.GetOrLoad(ctx, s.cache, cacheconfig.NameVerifyAddress, address,
		func(ctx context.Context) (types.Outcome[*types.Verified], error) {
			return types.OK(&types.Verified{Verified: VerifyAddress(address)}, ""), nil
		}, nil)
	return result
}

// VerifySignature 恢复签名人并与 address 比较
func VerifySignature(address, msg, sig string) (bool, error) {
	if !common.IsHexAddress(address) {
		return false, fmt.Errorf("%w: invalid address %q", types.ErrInvalidArgument, address)
	}
	raw, err := hexutil.Decode(sig)
	if err != nil {
		return false, fmt.Errorf("%w: signature must be 0x-prefixed hex: %w", types.ErrInvalidArgument, err)
	}
	if len(raw) != crypto.SignatureLength {
		return false, fmt.Errorf("%w: signature length %d", types.ErrInvalidArgument, len(raw))
	}
	// 钱包签名的 v 为 27/28
	if raw[crypto.RecoveryIDOffset] >= 27 {
		raw[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(msg)), raw)
	if err != nil {
		return false, fmt.Errorf("%w: recover signer: %w", types.ErrInvalidArgument, err)
	}
	return strings.EqualFold(crypto.PubkeyToAddress(*pub).Hex(), address), nil
}

// VerifyAddress 全小写或全大写只校验格式，混合大小写还要求校验和正确
func VerifyAddress(address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}
	body := strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X")
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(address).Hex() == "0x"+body
}

// formatEther wei 转 ether 十进制字符串
func formatEther(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -18).String()
}

func isOK[T any](o types.Outcome[T]) bool {
	return o.IsOK()
}
