package deploy

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/mintgate/pkg/types"
)

const (
	// defaultInitializer 可升级合约初始化函数
	defaultInitializer = "__Avatar_init"
	// defaultPollingInterval 等待部署回执的轮询间隔
	defaultPollingInterval = 1000 * time.Millisecond

	defaultImmutableArtifact   = "./artifacts/Avatar.json"
	defaultUpgradeableArtifact = "./artifacts/AvatarUpgradeable.json"
	defaultProxyArtifact       = "./artifacts/TransparentUpgradeableProxy.json"
	defaultProxyAdminArtifact  = "./artifacts/ProxyAdmin.json"
)

// DeployOptions 部署配置选项
type DeployOptions struct {
	ImmutableArtifact   string `json:"immutable_artifact"`
	UpgradeableArtifact string `json:"upgradeable_artifact"`
	ProxyArtifact       string `json:"proxy_artifact"`
	ProxyAdminArtifact  string `json:"proxy_admin_artifact"`
	// ProxyAdmin 透明代理的管理员地址，零值表示随部署新建 ProxyAdmin 合约
	ProxyAdmin      common.Address `json:"proxy_admin"`
	Initializer     string         `json:"initializer"`
	PollingInterval time.Duration  `json:"polling_interval"`
}

// Config 部署配置实现
type Config struct {
	options *DeployOptions
}

// New 创建部署配置
func New(user *types.UserDeployConfig) *Config {
	options := &DeployOptions{
		ImmutableArtifact:   defaultImmutableArtifact,
		UpgradeableArtifact: defaultUpgradeableArtifact,
		ProxyArtifact:       defaultProxyArtifact,
		ProxyAdminArtifact:  defaultProxyAdminArtifact,
		Initializer:         defaultInitializer,
		PollingInterval:     defaultPollingInterval,
	}
	if user != nil {
		if user.ImmutableArtifact != nil {
			options.ImmutableArtifact = *user.ImmutableArtifact
		}
		if user.UpgradeableArtifact != nil {
			options.UpgradeableArtifact = *user.UpgradeableArtifact
		}
		if user.ProxyArtifact != nil {
			options.ProxyArtifact = *user.ProxyArtifact
		}
		if user.ProxyAdminArtifact != nil {
			options.ProxyAdminArtifact = *user.ProxyAdminArtifact
		}
		if user.ProxyAdmin != nil && common.IsHexAddress(*user.ProxyAdmin) {
			options.ProxyAdmin = common.HexToAddress(*user.ProxyAdmin)
		}
		if user.Initializer != nil {
			options.Initializer = *user.Initializer
		}
		if user.PollingIntervalMs != nil && *user.PollingIntervalMs > 0 {
			options.PollingInterval = time.Duration(*user.PollingIntervalMs) * time.Millisecond
		}
	}
	return &Config{options: options}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *DeployOptions {
	return c.options
}
