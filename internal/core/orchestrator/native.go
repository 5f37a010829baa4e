package orchestrator

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/params"

	"github.com/weisyn/mintgate/internal/core/gasprice"
	"github.com/weisyn/mintgate/pkg/types"
)

// NativeTransfer 原生币转账
//
// force=false 时对网络原始价格执行熔断；gas limit 固定为 21000 × gas_limit_c / 100。
// 配置的确认数大于 0 时等待回执。
func (o *Orchestrator) NativeTransfer(ctx context.Context, req types.NativeTransferRequest) types.Outcome[*types.TransferResult] {
	result, err := o.nativeTransfer(ctx, req)
	return finish(ctx, o, OpTransfer, result, "Transfer tx committed", err)
}

func (o *Orchestrator) nativeTransfer(ctx context.Context, req types.NativeTransferRequest) (*types.TransferResult, error) {
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", types.ErrInvalidArgument)
	}
	key, err := o.vaultKey(req.PrivateKey, req.From)
	if err != nil {
		return nil, err
	}

	quote, err := o.gas.ComputeGasQuote(ctx, nil)
	if err != nil {
		return nil, err
	}
	if !req.Force {
		if err := o.breaker(ctx, OpTransfer, quote.Base); err != nil {
			return nil, err
		}
	}

	to := req.To
	tx, err := o.submit(ctx, txCall{
		operation: OpTransfer,
		key:       key,
		to:        &to,
		value:     req.Amount,
		price:     quote.Computed,
		gasLimit:  gasprice.ScaleGasLimit(params.TxGas, o.tx.GasLimitC()),
	})
	if err != nil {
		return nil, err
	}

	if o.tx.Confirmations() > 0 {
		r, err := o.waitMined(ctx, tx.Hash(), o.deploy.PollingInterval)
		if err != nil {
			return nil, err
		}
		o.log(ctx).Infof("Transfer tx mined. TxHash=%s, Status=%d, Block=%s", tx.Hash().Hex(), r.Status, r.BlockNumber)
	}
	return &types.TransferResult{TxHash: tx.Hash().Hex()}, nil
}
