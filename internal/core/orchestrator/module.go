package orchestrator

import (
	"go.uber.org/fx"

	ledgerconfig "github.com/weisyn/mintgate/internal/config/ledger"
	txconfig "github.com/weisyn/mintgate/internal/config/tx"
	"github.com/weisyn/mintgate/internal/core/gasprice"
	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/infrastructure/metrics"
	"github.com/weisyn/mintgate/internal/core/infrastructure/retry"
	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/internal/core/signer"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// ProvideRetryPolicy 账本幂等读的重试策略
func ProvideRetryPolicy(options *ledgerconfig.LedgerOptions) retry.Policy {
	return retry.FromLedgerOptions(options)
}

// PolicyParams gas 价格策略依赖
type PolicyParams struct {
	fx.In

	Ledger  ledger.Client
	Tx      *txconfig.Config
	Retry   retry.Policy
	Logger  log.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// ProvidePolicy 创建 gas 价格策略，网络价格同步到指标
func ProvidePolicy(p PolicyParams) *gasprice.Policy {
	policy := gasprice.NewPolicy(p.Ledger, p.Tx, p.Retry,
		logimpl.NewModuleLogger(p.Logger, "gasprice"))
	if p.Metrics != nil {
		policy.SetObserver(p.Metrics.ObserveGasPrice)
	}
	return policy
}

// Module 返回编排模块
//
// 提供：
//   - retry.Policy
//   - *gasprice.Policy
//   - *signer.Selector
//   - *Orchestrator
func Module() fx.Option {
	return fx.Module("orchestrator",
		fx.Provide(
			ProvideRetryPolicy,
			ProvidePolicy,
			signer.NewSelector,
			New,
		),
	)
}

