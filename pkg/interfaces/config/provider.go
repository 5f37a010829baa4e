// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/weisyn/mintgate/internal/config/api"
	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	deployconfig "github.com/weisyn/mintgate/internal/config/deploy"
	keystoreconfig "github.com/weisyn/mintgate/internal/config/keystore"
	ledgerconfig "github.com/weisyn/mintgate/internal/config/ledger"
	logconfig "github.com/weisyn/mintgate/internal/config/log"
	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	memoryconfig "github.com/weisyn/mintgate/internal/config/storage/memory"
	txconfig "github.com/weisyn/mintgate/internal/config/tx"
	"github.com/weisyn/mintgate/pkg/types"
)

// Provider 配置提供者接口
//
// 每个 Get 方法返回的实例在 Provider 生命周期内保持不变，
// 因此 GetTx().SetThresholdGwei 的热更新对所有持有者立即可见。
type Provider interface {
	// === 基础设施配置 ===

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetLedger 获取账本RPC配置
	GetLedger() *ledgerconfig.LedgerOptions

	// GetCache 获取响应缓存与在途锁配置
	GetCache() *cacheconfig.Config

	// GetMemoryStore 获取内存存储配置
	GetMemoryStore() *memoryconfig.MemoryOptions

	// === 业务配置 ===

	// GetTx 获取交易参数配置（含可热更新的熔断阈值）
	GetTx() *txconfig.Config

	// GetMint 获取铸造与签名身份配置
	GetMint() *mintconfig.Config

	// GetKeystore 获取密钥库配置
	GetKeystore() *keystoreconfig.KeystoreOptions

	// GetDeploy 获取合约部署配置
	GetDeploy() *deployconfig.DeployOptions

	// GetAppConfig 获取原始用户配置
	GetAppConfig() *types.AppConfig

	// GetEnvironment 获取运行环境（dev/test/prod）
	GetEnvironment() string
}
