// Package config 提供应用配置管理功能
package config

import (
	"go.uber.org/fx"

	apiconfig "github.com/weisyn/mintgate/internal/config/api"
	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	deployconfig "github.com/weisyn/mintgate/internal/config/deploy"
	keystoreconfig "github.com/weisyn/mintgate/internal/config/keystore"
	ledgerconfig "github.com/weisyn/mintgate/internal/config/ledger"
	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	memoryconfig "github.com/weisyn/mintgate/internal/config/storage/memory"
	txconfig "github.com/weisyn/mintgate/internal/config/tx"
	"github.com/weisyn/mintgate/pkg/interfaces/config"
	"github.com/weisyn/mintgate/pkg/types"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 应用配置选项
	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			// 提供具体的配置类型用于依赖注入
			func(provider config.Provider) *apiconfig.APIOptions {
				return provider.GetAPI()
			},
			func(provider config.Provider) *ledgerconfig.LedgerOptions {
				return provider.GetLedger()
			},
			func(provider config.Provider) *txconfig.Config {
				return provider.GetTx()
			},
			func(provider config.Provider) *mintconfig.Config {
				return provider.GetMint()
			},
			func(provider config.Provider) *keystoreconfig.KeystoreOptions {
				return provider.GetKeystore()
			},
			func(provider config.Provider) *cacheconfig.Config {
				return provider.GetCache()
			},
			func(provider config.Provider) *memoryconfig.MemoryOptions {
				return provider.GetMemoryStore()
			},
			func(provider config.Provider) *deployconfig.DeployOptions {
				return provider.GetDeploy()
			},
		),
		fx.Invoke(registerReloader),
	)
}

// ProvideConfigServices 提供配置服务
//
// 必填项校验失败时返回错误，fx 启动随之失败。
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}

	if err := ValidateMandatoryConfig(appConfig); err != nil {
		return ConfigOutput{}, err
	}

	return ConfigOutput{
		Provider: NewProvider(appConfig),
	}, nil
}
