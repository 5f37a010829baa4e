package orchestrator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	"github.com/weisyn/mintgate/internal/core/infrastructure/retry"
	"github.com/weisyn/mintgate/pkg/types"
)

// 只读操作名
const (
	OpTotalSupply            = "TotalSupply"
	OpEstimateTransfer       = "EstimateGasOfTransferNFT"
	OpEstimateBatchTransfer  = "EstimateGasOfBatchTransfer"
	OpEstimateBatchTransferN = "EstimateGasOfBatchTransferToN"
	OpTokenIDByContentHash   = "TokenIdByContentHash"
	OpContractInfo           = "ContractInfo"
	OpTokenInfo              = "TokenInfo"
	OpSymbol                 = "Symbol"
	OpContractOwner          = "ContractOwner"
	OpMaxSupplyRead          = "MaxSupply"
	OpOwnerOf                = "OwnerOf"
	OpBalanceOf              = "BalanceOf"
	OpIsProxy                = "IsProxy"
)

// read 只读操作收口：错误归一化，成功不带消息
func read[T any](ctx context.Context, o *Orchestrator, operation string, data T, err error) types.Outcome[T] {
	return finish(ctx, o, operation, data, "", err)
}

// cachedRead 命名缓存中的只读操作
//
// 缓存的是成功数据，命中与未命中都经由 read 收口，结果码统计一致。
func cachedRead[T any](ctx context.Context, o *Orchestrator, operation, name, key string, load func(ctx context.Context) (T, error)) types.Outcome[T] {
	data, err := cache.GetOrLoad(ctx, o.cache, name, key, load, nil)
	return read(ctx, o, operation, data, err)
}

// GetTotalSupply 总供应量（附当前区块高度）
func (o *Orchestrator) GetTotalSupply(ctx context.Context, contractAddr common.Address) types.Outcome[*types.TotalSupply] {
	return cachedRead(ctx, o, OpTotalSupply, cacheconfig.NameTotalSupplyOfNFT, contractAddr.Hex(),
		func(ctx context.Context) (*types.TotalSupply, error) {
			return o.totalSupply(ctx, contractAddr)
		})
}

func (o *Orchestrator) totalSupply(ctx context.Context, contractAddr common.Address) (*types.TotalSupply, error) {
	binding, err := o.proxy.Binding(ctx, contractAddr)
	if err != nil {
		return nil, err
	}
	supply, err := contract.CallOne[*big.Int](ctx, binding, o.ledger, contract.MethodTotalSupply)
	if err != nil {
		return nil, err
	}
	blockNumber, err := retry.Do(ctx, o.ledger.BlockNumber, o.retry, 0)
	if err != nil {
		return nil, err
	}
	o.log(ctx).Debugf("BlockNumber=%d, address=%s, totalSupply=%s", blockNumber, contractAddr.Hex(), supply)
	return &types.TotalSupply{TotalSupply: supply.String(), BlockNumber: blockNumber}, nil
}

// EstimateGasOfTransferNFT 单个转移的预估手续费（gas × 网络价格，wei）
func (o *Orchestrator) EstimateGasOfTransferNFT(ctx context.Context, contractAddr, from, to common.Address, tokenID *big.Int) types.Outcome[*types.GasFee] {
	if tokenID == nil {
		return read[*types.GasFee](ctx, o, OpEstimateTransfer, nil,
			fmt.Errorf("%w: tokenId is required", types.ErrInvalidArgument))
	}
	key := cache.CombinationKey(contractAddr.Hex(), from.Hex(), to.Hex(), tokenID.String())
	return cachedRead(ctx, o, OpEstimateTransfer, cacheconfig.NameEstimateGasOfTransferNFT, key,
		func(ctx context.Context) (*types.GasFee, error) {
			return o.estimateFee(ctx, contractAddr, from, contract.MethodTransferFrom, from, to, tokenID)
		})
}

// EstimateGasOfBatchTransfer 批量转移（1 对 1）的预估手续费
func (o *Orchestrator) EstimateGasOfBatchTransfer(ctx context.Context, contractAddr, from, to common.Address, fromTokenID, toTokenID *big.Int) types.Outcome[*types.GasFee] {
	fee, err := o.estimateFee(ctx, contractAddr, from, contract.MethodBatchTransfer, from, to, fromTokenID, toTokenID)
	return read(ctx, o, OpEstimateBatchTransfer, fee, err)
}

// EstimateGasOfBatchTransferToN 批量转移（1 对 N）的预估手续费
func (o *Orchestrator) EstimateGasOfBatchTransferToN(ctx context.Context, contractAddr, from common.Address, to []common.Address, tokenIDs []*big.Int) types.Outcome[*types.GasFee] {
	if len(to) != len(tokenIDs) {
		return read[*types.GasFee](ctx, o, OpEstimateBatchTransferN, nil,
			fmt.Errorf("%w: to(%d) and tokenIds(%d) length mismatch", types.ErrInvalidArgument, len(to), len(tokenIDs)))
	}
	fee, err := o.estimateFee(ctx, contractAddr, from, contract.MethodBatchTransferToN, from, to, tokenIDs)
	return read(ctx, o, OpEstimateBatchTransferN, fee, err)
}

// estimateFee 以 from 身份估算 gas，乘以网络价格
func (o *Orchestrator) estimateFee(ctx context.Context, contractAddr, from common.Address, method string, args ...interface{}) (*types.GasFee, error) {
	binding, err := o.proxy.Binding(ctx, contractAddr)
	if err != nil {
		return nil, err
	}
	msg, err := binding.CallMsg(from, method, args...)
	if err != nil {
		return nil, err
	}
	price, err := o.gas.NetworkPrice(ctx)
	if err != nil {
		return nil, err
	}
	gas, err := o.ledger.EstimateGas(ctx, msg)
	if err != nil {
		return nil, err
	}
	fee := new(big.Int).Mul(new(big.Int).SetUint64(gas), price)
	return &types.GasFee{GasFee: fee.String()}, nil
}

// GetTokenIdByContentHash 按内容指纹查询 tokenId
func (o *Orchestrator) GetTokenIdByContentHash(ctx context.Context, contractAddr common.Address, contentHash string) types.Outcome[*types.TokenID] {
	tokenID, err := o.tokenIDByContentHash(ctx, contractAddr, contentHash)
	return read(ctx, o, OpTokenIDByContentHash, tokenID, err)
}

func (o *Orchestrator) tokenIDByContentHash(ctx context.Context, contractAddr common.Address, contentHash string) (*types.TokenID, error) {
	binding, err := o.proxy.Binding(ctx, contractAddr)
	if err != nil {
		return nil, err
	}
	exists, err := contract.CallOne[bool](ctx, binding, o.ledger, contract.MethodContentHashExists, contentHash)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, classified(types.ErrNotFound, MsgContentHashAbsent)
	}
	id, err := contract.CallOne[*big.Int](ctx, binding, o.ledger, contract.MethodGetTokenIDByContentHash, contentHash)
	if err != nil {
		return nil, err
	}
	return &types.TokenID{TokenID: id}, nil
}

// GetContractInfo 合约概要（mintable 由 finalization 取反得出）
func (o *Orchestrator) GetContractInfo(ctx context.Context, contractAddr common.Address) types.Outcome[*types.ContractInfo] {
	info, err := o.contractInfo(ctx, contractAddr)
	return read(ctx, o, OpContractInfo, info, err)
}

func (o *Orchestrator) contractInfo(ctx context.Context, contractAddr common.Address) (*types.ContractInfo, error) {
	binding, err := o.proxy.Binding(ctx, contractAddr)
	if err != nil {
		return nil, err
	}
	name, err := contract.CallOne[string](ctx, binding, o.ledger, contract.MethodName)
	if err != nil {
		return nil, err
	}
	symbol, err := contract.CallOne[string](ctx, binding, o.ledger, contract.MethodSymbol)
	if err != nil {
		return nil, err
	}
	supply, err := contract.CallOne[*big.Int](ctx, binding, o.ledger, contract.MethodTotalSupply)
	if err != nil {
		return nil, err
	}
	owner, err := contract.CallOne[common.Address](ctx, binding, o.ledger, contract.MethodOwner)
	if err != nil {
		return nil, err
	}
	finalized, err := contract.CallOne[bool](ctx, binding, o.ledger, contract.MethodFinalization)
	if err != nil {
		return nil, err
	}
	mintable := 1
	if finalized {
		mintable = 0
	}
	return &types.ContractInfo{
		Name:     name,
		Symbol:   symbol,
		Supply:   supply,
		Owner:    owner.Hex(),
		Address:  contractAddr.Hex(),
		Mintable: mintable,
		Burnable: 1,
		Deploy:   1,
	}, nil
}

// tokenField 选择 GetTokenInfo 返回的字段
type tokenField int

const (
	fieldURI tokenField = 1 << iota
	fieldContentHash
)

// GetTokenInfo tokenURI 与内容指纹
func (o *Orchestrator) GetTokenInfo(ctx context.Context, contractAddr common.Address, tokenID *big.Int) types.Outcome[*types.TokenInfo] {
	info, err := o.tokenInfo(ctx, contractAddr, tokenID, fieldURI|fieldContentHash)
	return read(ctx, o, OpTokenInfo, info, err)
}

// GetTokenContentHash 代币内容指纹
func (o *Orchestrator) GetTokenContentHash(ctx context.Context, contractAddr common.Address, tokenID *big.Int) types.Outcome[*types.TokenInfo] {
	info, err := o.tokenInfo(ctx, contractAddr, tokenID, fieldContentHash)
	return read(ctx, o, OpTokenInfo, info, err)
}

// GetTokenURI 代币 URI
func (o *Orchestrator) GetTokenURI(ctx context.Context, contractAddr common.Address, tokenID *big.Int) types.Outcome[*types.TokenInfo] {
	info, err := o.tokenInfo(ctx, contractAddr, tokenID, fieldURI)
	return read(ctx, o, OpTokenInfo, info, err)
}

func (o *Orchestrator) tokenInfo(ctx context.Context, contractAddr common.Address, tokenID *big.Int, fields tokenField) (*types.TokenInfo, error) {
	binding, err := o.existingToken(ctx, contractAddr, tokenID)
	if err != nil {
		return nil, err
	}
	info := &types.TokenInfo{}
	if fields&fieldURI != 0 {
		if info.TokenURI, err = contract.CallOne[string](ctx, binding, o.ledger, contract.MethodTokenURI, tokenID); err != nil {
			return nil, err
		}
	}
	if fields&fieldContentHash != 0 {
		if info.ContentHash, err = contract.CallOne[string](ctx, binding, o.ledger, contract.MethodTokenContentHashes, tokenID); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// existingToken 解析绑定并确认 tokenId 存在
func (o *Orchestrator) existingToken(ctx context.Context, contractAddr common.Address, tokenID *big.Int) (*contract.Binding, error) {
	if tokenID == nil {
		return nil, fmt.Errorf("%w: tokenId is required", types.ErrInvalidArgument)
	}
	binding, err := o.proxy.Binding(ctx, contractAddr)
	if err != nil {
		return nil, err
	}
	exists, err := contract.CallOne[bool](ctx, binding, o.ledger, contract.MethodExists, tokenID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, classified(types.ErrNotFound, MsgTokenNotExist)
	}
	return binding, nil
}

// GetSymbol 合约符号
func (o *Orchestrator) GetSymbol(ctx context.Context, contractAddr common.Address) types.Outcome[*types.Symbol] {
	symbol, err := viewOne[string](ctx, o, contractAddr, contract.MethodSymbol)
	if err != nil {
		return read[*types.Symbol](ctx, o, OpSymbol, nil, err)
	}
	return read(ctx, o, OpSymbol, &types.Symbol{Symbol: symbol}, nil)
}

// GetContractOwner 合约所有者
func (o *Orchestrator) GetContractOwner(ctx context.Context, contractAddr common.Address) types.Outcome[*types.Owner] {
	owner, err := viewOne[common.Address](ctx, o, contractAddr, contract.MethodOwner)
	if err != nil {
		return read[*types.Owner](ctx, o, OpContractOwner, nil, err)
	}
	return read(ctx, o, OpContractOwner, &types.Owner{Owner: owner.Hex()}, nil)
}

// GetMaxSupply 最大供应量
func (o *Orchestrator) GetMaxSupply(ctx context.Context, contractAddr common.Address) types.Outcome[*types.MaxSupply] {
	maxSupply, err := viewOne[*big.Int](ctx, o, contractAddr, contract.MethodMaxSupply)
	if err != nil {
		return read[*types.MaxSupply](ctx, o, OpMaxSupplyRead, nil, err)
	}
	return read(ctx, o, OpMaxSupplyRead, &types.MaxSupply{MaxSupply: maxSupply}, nil)
}

// OwnerOf 代币持有者
func (o *Orchestrator) OwnerOf(ctx context.Context, contractAddr common.Address, tokenID *big.Int) types.Outcome[*types.Owner] {
	if tokenID == nil {
		return read[*types.Owner](ctx, o, OpOwnerOf, nil, fmt.Errorf("%w: tokenId is required", types.ErrInvalidArgument))
	}
	key := cache.CombinationKey(contractAddr.Hex(), tokenID.String())
	return cachedRead(ctx, o, OpOwnerOf, cacheconfig.NameOwnerOfNFT, key,
		func(ctx context.Context) (*types.Owner, error) {
			return o.ownerOf(ctx, contractAddr, tokenID)
		})
}

func (o *Orchestrator) ownerOf(ctx context.Context, contractAddr common.Address, tokenID *big.Int) (*types.Owner, error) {
	binding, err := o.existingToken(ctx, contractAddr, tokenID)
	if err != nil {
		return nil, err
	}
	owner, err := contract.CallOne[common.Address](ctx, binding, o.ledger, contract.MethodOwnerOf, tokenID)
	if err != nil {
		return nil, err
	}
	return &types.Owner{Owner: owner.Hex()}, nil
}

// BalanceOf 持有数量；owner 不是合法地址时返回 ERROR
func (o *Orchestrator) BalanceOf(ctx context.Context, contractAddr common.Address, owner string) types.Outcome[*types.Balance] {
	if !common.IsHexAddress(owner) {
		return read[*types.Balance](ctx, o, OpBalanceOf, nil, classified(types.ErrInvalidArgument, MsgInvalidOwner))
	}
	balance, err := viewOne[*big.Int](ctx, o, contractAddr, contract.MethodBalanceOf, common.HexToAddress(owner))
	if err != nil {
		return read[*types.Balance](ctx, o, OpBalanceOf, nil, err)
	}
	return read(ctx, o, OpBalanceOf, &types.Balance{Balance: balance}, nil)
}

// IsProxy 代理解析结果
func (o *Orchestrator) IsProxy(ctx context.Context, contractAddr common.Address) types.Outcome[*types.ProxyInfo] {
	info, err := o.proxyInfo(ctx, contractAddr)
	return read(ctx, o, OpIsProxy, info, err)
}

func (o *Orchestrator) proxyInfo(ctx context.Context, contractAddr common.Address) (*types.ProxyInfo, error) {
	isProxy, err := o.proxy.IsProxyContract(ctx, contractAddr)
	if err != nil {
		return nil, err
	}
	info := &types.ProxyInfo{Address: contractAddr.Hex(), IsProxy: isProxy}
	if isProxy {
		impl, err := o.proxy.Implementation(ctx, contractAddr)
		if err != nil {
			return nil, err
		}
		info.Implementation = impl.Hex()
	}
	return info, nil
}

// viewOne 解析绑定后调用单返回值的只读方法
func viewOne[T any](ctx context.Context, o *Orchestrator, contractAddr common.Address, method string, args ...interface{}) (T, error) {
	binding, err := o.proxy.Binding(ctx, contractAddr)
	if err != nil {
		var zero T
		return zero, err
	}
	return contract.CallOne[T](ctx, binding, o.ledger, method, args...)
}
