package orchestrator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/internal/core/inflight"
	"github.com/weisyn/mintgate/pkg/types"
)

// 操作名（日志、指标、事件共用）
const (
	OpMint             = "Mint"
	OpMintTo           = "MintTo"
	OpBatchTransfer    = "BatchTransfer"
	OpBatchTransferToN = "BatchTransferToN"
	OpBatchBurn        = "BatchBurn"
	OpSetMaxSupply     = "SetMaxSupply"
	OpSetBaseTokenURI  = "SetBaseTokenURI"
	OpDeploy           = "Deploy"
	OpTransfer         = "Transfer"
)

// MintForCreator 按内容指纹铸造
//
// 📋 **流程**：
//  1. 选择铸造者并解析密钥
//  2. 查重：单个指纹用 contentHashExists，批量用 getAllContentHash 一次取回后内存比对；
//     任一重复则整批放弃，返回 DUPLICATE 与已存在的 tokenId
//  3. 获取在途锁（合约,指纹），任一键被占用返回 DUPLICATE "content hash is being minted"
//  4. 报价、熔断、估算、提交；失败时释放锁，成功时锁保留到 TTL
func (o *Orchestrator) MintForCreator(ctx context.Context, req types.MintRequest) types.Outcome[*types.MintResult] {
	result, err := o.mintForCreator(ctx, req)
	if err == nil && result.DuplicateMint != nil {
		o.observe(OpMint, types.CodeDuplicate)
		return types.Outcome[*types.MintResult]{Code: types.CodeDuplicate, Msg: MsgDuplicate, Data: result}
	}
	return finish(ctx, o, OpMint, result, "Mint tx committed", err)
}

func (o *Orchestrator) mintForCreator(ctx context.Context, req types.MintRequest) (*types.MintResult, error) {
	if len(req.Fingerprints) == 0 {
		return nil, fmt.Errorf("%w: content hash is required", types.ErrInvalidArgument)
	}
	seen := make(map[string]struct{}, len(req.Fingerprints))
	for _, fp := range req.Fingerprints {
		if fp == "" {
			return nil, fmt.Errorf("%w: empty content hash", types.ErrInvalidArgument)
		}
		if _, ok := seen[fp]; ok {
			return nil, fmt.Errorf("%w: content hash %s repeated in request", types.ErrInvalidArgument, fp)
		}
		seen[fp] = struct{}{}
	}

	key, err := o.minterKey()
	if err != nil {
		return nil, err
	}
	binding, err := o.proxy.Binding(ctx, req.Contract)
	if err != nil {
		return nil, err
	}

	duplicates, err := o.duplicateFingerprints(ctx, binding, req.Fingerprints)
	if err != nil {
		return nil, err
	}
	if len(duplicates) > 0 {
		return o.duplicateResult(ctx, binding, req, duplicates)
	}

	lockKeys := inflight.Keys(req.Contract, req.Fingerprints)
	acquired, err := o.locker.Acquire(ctx, lockKeys, o.cacheConf.GetOptions().Inflight.TTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		o.publish(types.EventMintDuplicate, types.MintDuplicateEvent{
			EventMeta:    types.NewEventMeta(),
			Contract:     req.Contract.Hex(),
			Fingerprints: req.Fingerprints,
			InFlight:     true,
		})
		return nil, fmt.Errorf("%w: contract=%s", types.ErrInFlight, req.Contract.Hex())
	}

	quantity := big.NewInt(int64(len(req.Fingerprints)))
	submitted, err := o.contractCall(ctx, OpMint, key, binding, contract.MethodMintForCreator,
		req.Recipient, quantity, req.Fingerprints)
	if err != nil {
		if releaseErr := o.locker.Release(context.WithoutCancel(ctx), lockKeys); releaseErr != nil {
			o.log(ctx).Warnf("释放在途锁失败: contract=%s err=%v", req.Contract.Hex(), releaseErr)
		}
		return nil, err
	}
	return &types.MintResult{SubmittedTx: submitted}, nil
}

// duplicateFingerprints 返回已上链的指纹（保持请求顺序）
func (o *Orchestrator) duplicateFingerprints(ctx context.Context, binding *contract.Binding, fingerprints []string) ([]string, error) {
	var duplicates []string
	if len(fingerprints) == 1 {
		exists, err := contract.CallOne[bool](ctx, binding, o.ledger, contract.MethodContentHashExists, fingerprints[0])
		if err != nil {
			return nil, err
		}
		if exists {
			duplicates = append(duplicates, fingerprints[0])
		}
		return duplicates, nil
	}

	all, err := contract.CallOne[[]string](ctx, binding, o.ledger, contract.MethodGetAllContentHash)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(all))
	for _, h := range all {
		existing[h] = struct{}{}
	}
	for _, fp := range fingerprints {
		if _, ok := existing[fp]; ok {
			duplicates = append(duplicates, fp)
		}
	}
	return duplicates, nil
}

// duplicateResult 查询重复指纹对应的 tokenId
func (o *Orchestrator) duplicateResult(ctx context.Context, binding *contract.Binding, req types.MintRequest, duplicates []string) (*types.MintResult, error) {
	tokenIDs := make([]*big.Int, 0, len(duplicates))
	for _, fp := range duplicates {
		id, err := contract.CallOne[*big.Int](ctx, binding, o.ledger, contract.MethodGetTokenIDByContentHash, fp)
		if err != nil {
			return nil, err
		}
		tokenIDs = append(tokenIDs, id)
		o.log(ctx).Warnf("Duplicate contentHash(%s) found, mint request ignored. Token(ID=%s) with the same content hash. ContractAddress=%s, ToAddress=%s",
			fp, id, req.Contract.Hex(), req.Recipient.Hex())
	}
	o.publish(types.EventMintDuplicate, types.MintDuplicateEvent{
		EventMeta:    types.NewEventMeta(),
		Contract:     req.Contract.Hex(),
		Fingerprints: duplicates,
	})
	return &types.MintResult{DuplicateMint: &types.DuplicateMint{
		Status:   1,
		TokenIDs: tokenIDs,
	}}, nil
}

// MintTo 按数量铸造（无查重）
func (o *Orchestrator) MintTo(ctx context.Context, req types.MintToRequest) types.Outcome[*types.SubmittedTx] {
	submitted, err := o.mintTo(ctx, req)
	return finish(ctx, o, OpMintTo, submitted, "MintTo tx committed", err)
}

func (o *Orchestrator) mintTo(ctx context.Context, req types.MintToRequest) (*types.SubmittedTx, error) {
	if req.Quantity == nil || req.Quantity.Sign() <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", types.ErrInvalidArgument)
	}
	key, err := o.minterKey()
	if err != nil {
		return nil, err
	}
	binding, err := o.proxy.Binding(ctx, req.Contract)
	if err != nil {
		return nil, err
	}
	return o.contractCall(ctx, OpMintTo, key, binding, contract.MethodMintTo, req.Recipient, req.Quantity)
}

// GetMintReceipt 查询铸造回执
func (o *Orchestrator) GetMintReceipt(ctx context.Context, txHash common.Hash) types.Outcome[*types.MintReceipt] {
	outcome, err := o.receipts.GetMintReceipt(ctx, txHash)
	if err != nil {
		return finish[*types.MintReceipt](ctx, o, "MintReceipt", nil, "", err)
	}
	o.observe("MintReceipt", outcome.Code)
	return outcome
}
