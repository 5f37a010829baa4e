// Package receipt 解释交易回执
//
// 🎯 **核心职责**：
// - 从成功回执中提取铸造出的 tokenId（ERC-721 Transfer，from 为零地址）
// - 回执查询：已上链的回执不可变，缓存在内存存储中
//
// 📋 **判定规则**：
// - 回执为空或 status != 1 时返回空列表
// - 日志必须恰好 4 个 topic 且 topics[1] 为零哈希
// - 严格模式下 topics[0] 还必须等于 Transfer 事件签名
package receipt

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/mintgate/pkg/types"
)

// MsgTxNotExist 交易不存在
const MsgTxNotExist = "transaction not exist"

const keyPrefix = "receipt:"

// ExtractMintedTokenIDs 提取回执中铸造出的 tokenId
func ExtractMintedTokenIDs(receipt *gethtypes.Receipt, strict bool) []*big.Int {
	tokenIDs := make([]*big.Int, 0)
	if receipt == nil || receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return tokenIDs
	}
	for _, l := range receipt.Logs {
		if l == nil || len(l.Topics) != 4 {
			continue
		}
		if l.Topics[1] != (common.Hash{}) {
			continue
		}
		if strict && l.Topics[0] != contract.TransferEventTopic {
			continue
		}
		tokenIDs = append(tokenIDs, l.Topics[3].Big())
	}
	return tokenIDs
}

// Store 回执查询（内存存储 + 账本回源）
type Store struct {
	ledger ledger.Client
	memory storage.MemoryStore
	logger log.Logger
}

// NewStore 创建回执存储
func NewStore(client ledger.Client, memory storage.MemoryStore, logger log.Logger) *Store {
	return &Store{ledger: client, memory: memory, logger: logger}
}

// Lookup 查询回执，未上链时返回 nil, nil
func (s *Store) Lookup(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	key := keyPrefix + hash.Hex()
	if s.memory != nil {
		if data, ok, err := s.memory.Get(ctx, key); err == nil && ok {
			var cached gethtypes.Receipt
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			} else if s.logger != nil {
				s.logger.Warnf("回执缓存解码失败，回源账本: tx=%s err=%v", hash.Hex(), err)
			}
		}
	}

	receipt, err := s.ledger.Receipt(ctx, hash)
	if err != nil || receipt == nil {
		return nil, err
	}

	if s.memory != nil {
		stored := *receipt
		if stored.Logs == nil {
			stored.Logs = []*gethtypes.Log{}
		}
		if data, err := json.Marshal(&stored); err == nil {
			if err := s.memory.Set(ctx, key, data, 0); err != nil && s.logger != nil {
				s.logger.Warnf("回执缓存写入失败: tx=%s err=%v", hash.Hex(), err)
			}
		}
	}
	return receipt, nil
}

// Interpreter 铸造回执解释器
type Interpreter struct {
	store  *Store
	mint   *mintconfig.Config
	logger log.Logger
}

// NewInterpreter 创建回执解释器
func NewInterpreter(store *Store, mint *mintconfig.Config, logger log.Logger) *Interpreter {
	return &Interpreter{store: store, mint: mint, logger: logger}
}

// GetMintReceipt 查询铸造回执
func (i *Interpreter) GetMintReceipt(ctx context.Context, txHash common.Hash) (types.Outcome[*types.MintReceipt], error) {
	receipt, err := i.store.Lookup(ctx, txHash)
	if err != nil {
		return types.Outcome[*types.MintReceipt]{}, err
	}
	if receipt == nil {
		return types.Fail[*types.MintReceipt](types.CodeError, MsgTxNotExist), nil
	}

	tokenIDs := ExtractMintedTokenIDs(receipt, i.mint.GetOptions().StrictReceipt)
	if i.logger != nil {
		i.logger.Debugf("TxHash(%s) checked. BlockNumber=%s, Minted tokenIds=%v", txHash.Hex(), receipt.BlockNumber, tokenIDs)
	}

	return types.OK(&types.MintReceipt{
		TokenIDs: tokenIDs,
		Status:   receipt.Status,
		Receipt:  receipt,
	}, ""), nil
}
