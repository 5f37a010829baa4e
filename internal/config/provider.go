package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/weisyn/mintgate/internal/config/api"
	"github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/internal/config/deploy"
	"github.com/weisyn/mintgate/internal/config/keystore"
	"github.com/weisyn/mintgate/internal/config/ledger"
	"github.com/weisyn/mintgate/internal/config/log"
	"github.com/weisyn/mintgate/internal/config/mint"
	"github.com/weisyn/mintgate/internal/config/storage/memory"
	"github.com/weisyn/mintgate/internal/config/tx"
	"github.com/weisyn/mintgate/pkg/interfaces/config"
	"github.com/weisyn/mintgate/pkg/types"
)

// 运行环境
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"
)

// Provider 实现配置提供者接口
//
// 各子配置在首次访问时构建并缓存，之后返回同一实例。
type Provider struct {
	appConfig *types.AppConfig

	txOnce sync.Once
	tx     *tx.Config

	mintOnce sync.Once
	mint     *mint.Config

	cacheOnce sync.Once
	cache     *cache.Config
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	return &Provider{
		appConfig: appConfig,
	}
}

// LoadAppConfig 从 JSON 文件读取用户配置
func LoadAppConfig(path string) (*types.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return ParseAppConfig(data)
}

// ParseAppConfig 解析 JSON 配置内容
func ParseAppConfig(data []byte) (*types.AppConfig, error) {
	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return &appConfig, nil
}

// GetLog 获取日志配置
//
// 开发环境未显式指定级别时使用 debug。
func (p *Provider) GetLog() *log.LogOptions {
	options := log.New(p.appConfig.Log).GetOptions()
	if p.GetEnvironment() == EnvDev && (p.appConfig.Log == nil || p.appConfig.Log.Level == nil) {
		options.Level = "debug"
	}
	return options
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	return api.New(p.appConfig.API).GetOptions()
}

// GetLedger 获取账本RPC配置
func (p *Provider) GetLedger() *ledger.LedgerOptions {
	return ledger.New(p.appConfig.Ledger).GetOptions()
}

// GetTx 获取交易参数配置
func (p *Provider) GetTx() *tx.Config {
	p.txOnce.Do(func() {
		p.tx = tx.New(p.appConfig.Tx)
	})
	return p.tx
}

// GetMint 获取铸造配置
func (p *Provider) GetMint() *mint.Config {
	p.mintOnce.Do(func() {
		p.mint = mint.New(p.appConfig.Mint)
	})
	return p.mint
}

// GetKeystore 获取密钥库配置
func (p *Provider) GetKeystore() *keystore.KeystoreOptions {
	return keystore.New(p.appConfig.Keystore).GetOptions()
}

// GetCache 获取缓存配置
func (p *Provider) GetCache() *cache.Config {
	p.cacheOnce.Do(func() {
		p.cache = cache.New(p.appConfig.Cache)
	})
	return p.cache
}

// GetMemoryStore 获取内存存储配置
func (p *Provider) GetMemoryStore() *memory.MemoryOptions {
	var user *types.UserMemoryStorageConfig
	if p.appConfig.Storage != nil {
		user = p.appConfig.Storage.Memory
	}
	return memory.New(user).GetOptions()
}

// GetDeploy 获取部署配置
func (p *Provider) GetDeploy() *deploy.DeployOptions {
	return deploy.New(p.appConfig.Deploy).GetOptions()
}

// GetAppConfig 获取原始用户配置
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}

// GetEnvironment 获取运行环境
//
// 未配置或取值无效时返回 prod（安全优先）。
func (p *Provider) GetEnvironment() string {
	if p.appConfig.Environment == nil {
		return EnvProd
	}
	switch env := strings.ToLower(strings.TrimSpace(*p.appConfig.Environment)); env {
	case EnvDev, EnvTest, EnvProd:
		return env
	default:
		return EnvProd
	}
}
