// Package orchestrator 交易编排
//
// 🎯 **核心职责**：把客户端意图（铸造、转移、销毁、部署、所有者配置变更、原生转账）
// 转换为定价正确、幂等、可观测的账本交易，并回答合约只读查询。
//
// 📋 **写操作统一骨架**：
//
//	选择身份 → 解析密钥 →（仅铸造：指纹查重 + 在途锁）→ gas 报价 → 熔断
//	→ 估算 × gas_limit_c / 100 → 签名广播 → OK {txHash, tx}
//
// ⚠️ **重试边界**：只有幂等读（网络价格）走重试，交易提交从不重试。
//
// 所有失败都在本包边界通过 Normalize 转换为 Outcome 结果码，不向传输层泄漏原始错误。
package orchestrator

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/fx"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	deployconfig "github.com/weisyn/mintgate/internal/config/deploy"
	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	txconfig "github.com/weisyn/mintgate/internal/config/tx"
	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/internal/core/gasprice"
	"github.com/weisyn/mintgate/internal/core/inflight"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/infrastructure/metrics"
	"github.com/weisyn/mintgate/internal/core/infrastructure/retry"
	"github.com/weisyn/mintgate/internal/core/keystore"
	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/internal/core/proxy"
	"github.com/weisyn/mintgate/internal/core/receipt"
	"github.com/weisyn/mintgate/internal/core/signer"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/types"
)

// Params 编排器依赖
type Params struct {
	fx.In

	Ledger    ledger.Client
	GasPrice  *gasprice.Policy
	Selector  *signer.Selector
	Keys      keystore.Resolver
	Proxy     *proxy.Resolver
	Receipts  *receipt.Interpreter
	Locker    inflight.Locker
	Cache     *cache.Registry
	Artifacts *contract.ArtifactStore
	Tx        *txconfig.Config
	Mint      *mintconfig.Config
	CacheConf *cacheconfig.Config
	Deploy    *deployconfig.DeployOptions
	Retry     retry.Policy
	Logger    log.Logger

	EventBus event.EventBus   `optional:"true"`
	Metrics  *metrics.Metrics `optional:"true"`
	Clock    clock.Clock      `optional:"true"`
}

// Orchestrator 交易编排器
type Orchestrator struct {
	ledger    ledger.Client
	gas       *gasprice.Policy
	selector  *signer.Selector
	keys      keystore.Resolver
	proxy     *proxy.Resolver
	receipts  *receipt.Interpreter
	locker    inflight.Locker
	cache     *cache.Registry
	artifacts *contract.ArtifactStore
	tx        *txconfig.Config
	mint      *mintconfig.Config
	cacheConf *cacheconfig.Config
	deploy    *deployconfig.DeployOptions
	retry     retry.Policy

	bus     event.EventBus
	metrics *metrics.Metrics
	clock   clock.Clock
	logger  log.Logger
}

// New 创建交易编排器
func New(p Params) *Orchestrator {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Orchestrator{
		ledger:    p.Ledger,
		gas:       p.GasPrice,
		selector:  p.Selector,
		keys:      p.Keys,
		proxy:     p.Proxy,
		receipts:  p.Receipts,
		locker:    p.Locker,
		cache:     p.Cache,
		artifacts: p.Artifacts,
		tx:        p.Tx,
		mint:      p.Mint,
		cacheConf: p.CacheConf,
		deploy:    p.Deploy,
		retry:     p.Retry,
		bus:       p.EventBus,
		metrics:   p.Metrics,
		clock:     clk,
		logger:    logimpl.NewModuleLogger(p.Logger, "orchestrator"),
	}
}

// Normalize 按当前配置把错误映射为结果码与消息
func (o *Orchestrator) Normalize(err error) (types.ResultCode, string) {
	return Normalize(err, o.mint.GetOptions().MaxSupplyReason)
}

// log 返回请求级 logger
func (o *Orchestrator) log(ctx context.Context) log.Logger {
	return logimpl.FromContext(ctx, o.logger)
}

// finish 在编排边界收口：错误归一化并记录结果指标
func finish[T any](ctx context.Context, o *Orchestrator, operation string, data T, okMsg string, err error) types.Outcome[T] {
	var outcome types.Outcome[T]
	if err != nil {
		code, msg := o.Normalize(err)
		outcome = types.Fail[T](code, msg)
		if code == types.CodeError {
			o.log(ctx).Errorf("%s failed: %v", operation, err)
		} else {
			o.log(ctx).Warnf("%s terminated: code=%s msg=%s", operation, code, msg)
		}
	} else {
		outcome = types.OK(data, okMsg)
	}
	o.observe(operation, outcome.Code)
	return outcome
}

func (o *Orchestrator) observe(operation string, code types.ResultCode) {
	if o.metrics != nil {
		o.metrics.ObserveOutcome(operation, code)
	}
}

func (o *Orchestrator) publish(eventType types.EventType, payload interface{}) {
	if o.bus != nil {
		o.bus.Publish(eventType, payload)
	}
}

// ==================== 身份与密钥 ====================

// minterKey 选择铸造者并解析密钥
func (o *Orchestrator) minterKey() (*ecdsa.PrivateKey, error) {
	identity, err := o.selector.SelectMinter(o.selector.RandomMinter())
	if err != nil {
		return nil, err
	}
	return o.keys.ResolveSigningKey(identity)
}

// vaultKey 请求携带私钥时使用之，否则使用 from 对应的金库密钥
func (o *Orchestrator) vaultKey(pk string, from common.Address) (*ecdsa.PrivateKey, error) {
	if pk != "" {
		return keystore.ParsePrivateKey(pk)
	}
	identity, err := o.selector.SelectVault(from)
	if err != nil {
		return nil, err
	}
	return o.keys.ResolveSigningKey(identity)
}

// ownerKey 请求携带私钥时使用之，否则使用配置的合约所有者密钥
func (o *Orchestrator) ownerKey(pk string) (*ecdsa.PrivateKey, error) {
	if pk != "" {
		return keystore.ParsePrivateKey(pk)
	}
	identity, err := o.selector.DefaultContractOwner()
	if err != nil {
		return nil, err
	}
	return o.keys.ResolveSigningKey(identity)
}

// ==================== 定价与提交 ====================

// quote 计算报价并执行熔断
func (o *Orchestrator) quote(ctx context.Context, operation string, coefficient *uint64) (*big.Int, error) {
	quote, err := o.gas.ComputeGasQuote(ctx, coefficient)
	if err != nil {
		return nil, err
	}
	if err := o.breaker(ctx, operation, quote.Computed); err != nil {
		return nil, err
	}
	return quote.Computed, nil
}

// breaker 价格达到阈值时返回 ErrThresholdExceeded
func (o *Orchestrator) breaker(ctx context.Context, operation string, price *big.Int) error {
	tripped, threshold, err := o.gas.Tripped(price)
	if err != nil {
		return err
	}
	if !tripped {
		return nil
	}
	o.log(ctx).Warnf("%s request terminated due to high gas price. GasPrice=%sGwei, Threshold=%sGwei",
		operation, gasprice.FormatGwei(price), gasprice.FormatGwei(threshold))
	o.publish(types.EventBreakerTripped, types.BreakerTrippedEvent{
		EventMeta:    types.NewEventMeta(),
		Operation:    operation,
		PriceWei:     price.String(),
		ThresholdWei: threshold.String(),
	})
	return classified(types.ErrThresholdExceeded, operation+" request terminated due to high gas price")
}

// txCall 一次待提交的交易
type txCall struct {
	operation string
	key       *ecdsa.PrivateKey
	to        *common.Address // nil 表示合约创建
	data      []byte
	value     *big.Int
	price     *big.Int
	// gasLimit 非零时跳过估算（原生转账）
	gasLimit uint64
	// nonce 非空时使用指定 nonce（部署第二笔交易）
	nonce *uint64
}

// submit 估算、签名并广播；提交失败不重试
func (o *Orchestrator) submit(ctx context.Context, call txCall) (*gethtypes.Transaction, error) {
	from := crypto.PubkeyToAddress(call.key.PublicKey)
	value := call.value
	if value == nil {
		value = new(big.Int)
	}

	gasLimit := call.gasLimit
	if gasLimit == 0 {
		estimate, err := o.ledger.EstimateGas(ctx, ethereum.CallMsg{
			From:     from,
			To:       call.to,
			GasPrice: call.price,
			Value:    value,
			Data:     call.data,
		})
		if err != nil {
			return nil, err
		}
		gasLimit = gasprice.ScaleGasLimit(estimate, o.tx.GasLimitC())
		o.log(ctx).Infof("%s... From=%s, EstimateGas=%d, GasLimit=%d, GasPrice=%sGwei",
			call.operation, from.Hex(), estimate, gasLimit, gasprice.FormatGwei(call.price))
	}

	var nonce uint64
	if call.nonce != nil {
		nonce = *call.nonce
	} else {
		n, err := o.ledger.PendingNonce(ctx, from)
		if err != nil {
			return nil, err
		}
		nonce = n
	}

	chainID, err := o.ledger.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: call.price,
		Gas:      gasLimit,
		To:       call.to,
		Value:    value,
		Data:     call.data,
	})
	signed, err := gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(chainID), call.key)
	if err != nil {
		return nil, fmt.Errorf("%w: sign %s: %w", types.ErrInvalidArgument, call.operation, err)
	}
	if err := o.ledger.Send(ctx, signed); err != nil {
		return nil, err
	}

	to := ""
	if call.to != nil {
		to = call.to.Hex()
	}
	o.log(ctx).Infof("%s tx committed. From=%s, To=%s, TxHash=%s, GasLimit=%d, GasPrice=%sGwei",
		call.operation, from.Hex(), to, signed.Hash().Hex(), gasLimit, gasprice.FormatGwei(call.price))
	o.publish(types.EventTxSubmitted, types.TxSubmittedEvent{
		EventMeta: types.NewEventMeta(),
		Operation: call.operation,
		TxHash:    signed.Hash().Hex(),
		From:      from.Hex(),
		To:        to,
	})
	return signed, nil
}

// contractCall 合约写调用：报价 → 熔断 → 提交
func (o *Orchestrator) contractCall(ctx context.Context, operation string, key *ecdsa.PrivateKey, binding *contract.Binding, method string, args ...interface{}) (*types.SubmittedTx, error) {
	data, err := binding.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	price, err := o.quote(ctx, operation, nil)
	if err != nil {
		return nil, err
	}
	to := binding.Address
	tx, err := o.submit(ctx, txCall{
		operation: operation,
		key:       key,
		to:        &to,
		data:      data,
		price:     price,
	})
	if err != nil {
		return nil, err
	}
	return &types.SubmittedTx{TxHash: tx.Hash().Hex(), Tx: tx}, nil
}

// waitMined 按轮询间隔等待回执，直到上链或 context 结束
func (o *Orchestrator) waitMined(ctx context.Context, hash common.Hash, interval time.Duration) (*gethtypes.Receipt, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := o.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		r, err := o.ledger.Receipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if r != nil {
			return r, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: wait for %s: %w", types.ErrLedger, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
