// Package network 提供链上通用查询与钱包工具
//
// 🎯 **核心职责**：
// - 链查询：gas 价格、交易、回执、区块、余额
// - 签名与地址校验（EIP-191 personal message）
// - 助记词钱包与 keystore V3 JSON 钱包
//
// 查询结果统一为 Outcome；可缓存的查询走命名缓存，命中与未命中返回相同信封。
package network

import (
	"go.uber.org/fx"

	"github.com/weisyn/mintgate/internal/core/gasprice"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/internal/core/receipt"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// ModuleParams 网络查询模块依赖
type ModuleParams struct {
	fx.In

	Ledger   ledger.Client
	Gas      *gasprice.Policy
	Receipts *receipt.Store
	Cache    *cache.Registry
	Logger   log.Logger
}

// Module 提供链查询服务
func Module() fx.Option {
	return fx.Module("network",
		fx.Provide(func(params ModuleParams) *Service {
			return NewService(params.Ledger, params.Gas, params.Receipts, params.Cache,
				logimpl.NewModuleLogger(params.Logger, "network"))
		}),
	)
}
