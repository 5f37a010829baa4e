package orchestrator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/pkg/types"
)

// BatchTransfer 批量转移（1 对 1，tokenId 连续区间）
//
// 签名者：请求携带私钥时使用之，否则使用 from 对应的金库密钥。
func (o *Orchestrator) BatchTransfer(ctx context.Context, req types.BatchTransferRequest) types.Outcome[*types.SubmittedTx] {
	submitted, err := o.batchTransfer(ctx, req)
	return finish(ctx, o, OpBatchTransfer, submitted, "BatchTransfer tx committed", err)
}

func (o *Orchestrator) batchTransfer(ctx context.Context, req types.BatchTransferRequest) (*types.SubmittedTx, error) {
	if req.FromTokenID == nil || req.ToTokenID == nil {
		return nil, fmt.Errorf("%w: token id range is required", types.ErrInvalidArgument)
	}
	key, err := o.vaultKey(req.PrivateKey, req.From)
	if err != nil {
		return nil, err
	}
	binding, err := o.proxy.Binding(ctx, req.Contract)
	if err != nil {
		return nil, err
	}
	return o.contractCall(ctx, OpBatchTransfer, key, binding, contract.MethodBatchTransfer,
		req.From, req.To, req.FromTokenID, req.ToTokenID)
}

// BatchTransferToN 批量转移（1 对 N），to 与 tokenIds 长度必须一致
func (o *Orchestrator) BatchTransferToN(ctx context.Context, req types.BatchTransferToNRequest) types.Outcome[*types.SubmittedTx] {
	submitted, err := o.batchTransferToN(ctx, req)
	return finish(ctx, o, OpBatchTransferToN, submitted, "BatchTransferToN tx committed", err)
}

func (o *Orchestrator) batchTransferToN(ctx context.Context, req types.BatchTransferToNRequest) (*types.SubmittedTx, error) {
	if len(req.To) == 0 || len(req.To) != len(req.TokenIDs) {
		return nil, fmt.Errorf("%w: to(%d) and tokenIds(%d) length mismatch",
			types.ErrInvalidArgument, len(req.To), len(req.TokenIDs))
	}
	key, err := o.vaultKey(req.PrivateKey, req.From)
	if err != nil {
		return nil, err
	}
	binding, err := o.proxy.Binding(ctx, req.Contract)
	if err != nil {
		return nil, err
	}
	return o.contractCall(ctx, OpBatchTransferToN, key, binding, contract.MethodBatchTransferToN,
		req.From, req.To, req.TokenIDs)
}

// BatchBurn 批量销毁
//
// 签名者：请求携带私钥时使用之，否则使用配置的合约所有者。
func (o *Orchestrator) BatchBurn(ctx context.Context, req types.BatchBurnRequest) types.Outcome[*types.SubmittedTx] {
	submitted, err := o.batchBurn(ctx, req)
	return finish(ctx, o, OpBatchBurn, submitted, "BatchBurn tx committed", err)
}

func (o *Orchestrator) batchBurn(ctx context.Context, req types.BatchBurnRequest) (*types.SubmittedTx, error) {
	if req.FromTokenID == nil || req.ToTokenID == nil {
		return nil, fmt.Errorf("%w: token id range is required", types.ErrInvalidArgument)
	}
	key, err := o.ownerKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}
	binding, err := o.proxy.Binding(ctx, req.Contract)
	if err != nil {
		return nil, err
	}
	return o.contractCall(ctx, OpBatchBurn, key, binding, contract.MethodBatchBurn, req.FromTokenID, req.ToTokenID)
}

// ==================== 所有者配置变更 ====================

// SetMaxSupply 设置最大供应量（仅合约所有者）
func (o *Orchestrator) SetMaxSupply(ctx context.Context, contractAddr common.Address, maxSupply uint64) types.Outcome[*types.SubmittedTx] {
	submitted, err := o.ownerCall(ctx, OpSetMaxSupply, contractAddr, contract.MethodSetMaxSupply, new(big.Int).SetUint64(maxSupply))
	return finish(ctx, o, OpSetMaxSupply, submitted, "SetMaxSupply tx committed", err)
}

// SetBaseTokenURI 设置 baseTokenURI（仅合约所有者）
func (o *Orchestrator) SetBaseTokenURI(ctx context.Context, contractAddr common.Address, baseTokenURI string) types.Outcome[*types.SubmittedTx] {
	submitted, err := o.ownerCall(ctx, OpSetBaseTokenURI, contractAddr, contract.MethodSetBaseTokenURI, baseTokenURI)
	return finish(ctx, o, OpSetBaseTokenURI, submitted, "SetBaseTokenURI tx committed", err)
}

// ownerCall 链上 owner() 在合约所有者池中按地址查找，找到才继续
func (o *Orchestrator) ownerCall(ctx context.Context, operation string, contractAddr common.Address, method string, args ...interface{}) (*types.SubmittedTx, error) {
	binding, err := o.proxy.Binding(ctx, contractAddr)
	if err != nil {
		return nil, err
	}
	onchainOwner, err := contract.CallOne[common.Address](ctx, binding, o.ledger, contract.MethodOwner)
	if err != nil {
		return nil, err
	}
	identity, err := o.selector.SelectContractOwner(onchainOwner)
	if err != nil {
		o.log(ctx).Warnf("Not found contract owner(%s) SK", onchainOwner.Hex())
		return nil, classified(types.ErrNotFound, MsgOwnerKeyNotFound)
	}
	key, err := o.keys.ResolveSigningKey(identity)
	if err != nil {
		return nil, err
	}
	return o.contractCall(ctx, operation, key, binding, method, args...)
}
