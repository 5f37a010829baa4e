// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	Version *string `json:"version,omitempty"`  // 应用版本

	// Environment 运行环境：dev | test | prod
	// 只影响日志级别、默认端口等运维属性
	Environment *string `json:"environment,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// API服务配置
	API *UserAPIConfig `json:"api,omitempty"`

	// 账本RPC连接配置 - 对应配置文件中的 ledger 字段
	Ledger *UserLedgerConfig `json:"ledger,omitempty"`

	// 交易参数配置 - 对应配置文件中的 tx 字段
	Tx *UserTxConfig `json:"tx,omitempty"`

	// 铸造与签名身份配置 - 对应配置文件中的 mint 字段
	Mint *UserMintConfig `json:"mint,omitempty"`

	// 密钥库配置
	Keystore *UserKeystoreConfig `json:"keystore,omitempty"`

	// 响应缓存与在途锁配置
	Cache *UserCacheConfig `json:"cache,omitempty"`

	// 存储配置
	Storage *UserStorageConfig `json:"storage,omitempty"`

	// 合约部署配置
	Deploy *UserDeployConfig `json:"deploy,omitempty"`
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level      *string `json:"level,omitempty"`       // 日志级别：debug, info, warn, error, fatal
	FilePath   *string `json:"file_path,omitempty"`   // 日志文件路径
	ToConsole  *bool   `json:"to_console,omitempty"`  // 是否同时输出到控制台
	MaxSize    *int    `json:"max_size,omitempty"`    // 单文件最大大小(MB)
	MaxBackups *int    `json:"max_backups,omitempty"` // 最大备份数
	MaxAge     *int    `json:"max_age,omitempty"`     // 最大保留天数
	Compress   *bool   `json:"compress,omitempty"`    // 是否压缩历史文件
}

// UserAPIConfig 用户API配置
// 只包含JSON配置文件中实际出现的字段
type UserAPIConfig struct {
	HTTPEnabled *bool   `json:"http_enabled,omitempty"` // 是否启用HTTP服务（默认true）
	HTTPHost    *string `json:"http_host,omitempty"`    // HTTP监听地址
	HTTPPort    *int    `json:"http_port,omitempty"`    // HTTP监听端口

	ReadTimeoutSeconds  *int `json:"read_timeout_seconds,omitempty"`  // 读超时
	WriteTimeoutSeconds *int `json:"write_timeout_seconds,omitempty"` // 写超时

	// 限流配置（按客户端IP）
	RateLimitEnabled *bool    `json:"rate_limit_enabled,omitempty"`
	RateLimitRPS     *float64 `json:"rate_limit_rps,omitempty"`
	RateLimitBurst   *int     `json:"rate_limit_burst,omitempty"`

	// 是否暴露 /metrics
	MetricsEnabled *bool `json:"metrics_enabled,omitempty"`
}

// UserLedgerConfig 账本RPC配置
type UserLedgerConfig struct {
	RPCURL  *string `json:"rpc_url,omitempty"`  // JSON-RPC 端点
	ChainID *uint64 `json:"chain_id,omitempty"` // 链ID（为空时从节点查询）

	// 只读调用的重试策略
	RetryTimes         *uint `json:"retry_times,omitempty"`
	RetryMinIntervalMs *int  `json:"retry_min_interval_ms,omitempty"`
	RetryMaxIntervalMs *int  `json:"retry_max_interval_ms,omitempty"`

	// 单次RPC调用超时
	RequestTimeoutSeconds *int `json:"request_timeout_seconds,omitempty"`
}

// UserTxConfig 交易参数配置
type UserTxConfig struct {
	// GasLimitC gas limit 系数（百分比，>=100）
	GasLimitC *uint64 `json:"gas_limit_c,omitempty"`
	// GasPriceC gas price 浮动系数（百分比，低于100按100处理）
	GasPriceC *uint64 `json:"gas_price_c,omitempty"`
	// Confirmations 原生转账等待的确认数
	Confirmations *uint64 `json:"confirmations,omitempty"`
	// GasPriceThresholdGwei 熔断阈值（gwei，十进制字符串）
	GasPriceThresholdGwei *string `json:"gas_price_threshold_gwei,omitempty"`
}

// UserKeyEntry 签名身份条目
type UserKeyEntry struct {
	Address string `json:"address"`
	// KeyRef 密钥库口令所在的环境变量名
	KeyRef string `json:"key_ref,omitempty"`
}

// UserResponseCodeConfig 结果码到对外数字码的映射
type UserResponseCodeConfig struct {
	OK        *int `json:"ok,omitempty"`
	Duplicate *int `json:"duplicate,omitempty"`
	Threshold *int `json:"threshold,omitempty"`
	NotFound  *int `json:"not_found,omitempty"`
	Error     *int `json:"error,omitempty"`
	MaxSupply *int `json:"max_supply,omitempty"`
}

// UserMintConfig 铸造与签名身份配置
type UserMintConfig struct {
	RandomMinter  *bool          `json:"random_minter,omitempty"`
	Minters       []UserKeyEntry `json:"minters,omitempty"`
	Vaults        []UserKeyEntry `json:"vaults,omitempty"`
	Operators     []string       `json:"operators,omitempty"`

	// ContractOwners 合约所有者池，第一个为部署默认身份
	ContractOwners []UserKeyEntry `json:"contract_owners,omitempty"`
	// ContractOwner 单一所有者的旧写法，存在时排在池首
	ContractOwner *UserKeyEntry `json:"contract_owner,omitempty"`

	// MaxSupplyReason 达到最大供应量时合约 revert 的原因文本
	MaxSupplyReason *string `json:"max_supply_reason,omitempty"`
	// StrictReceipt 回执解析时校验 topic0 事件签名
	StrictReceipt *bool `json:"strict_receipt,omitempty"`

	APIResponseCode *UserResponseCodeConfig `json:"api_response_code,omitempty"`
}

// UserKeystoreConfig 密钥库配置
type UserKeystoreConfig struct {
	Dir           *string `json:"dir,omitempty"`            // keystore 目录
	PassphraseEnv *string `json:"passphrase_env,omitempty"` // 默认口令环境变量名
}

// UserCacheEntryConfig 单个命名缓存的配置
type UserCacheEntryConfig struct {
	TTLMs    *int64 `json:"ttl_ms,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
}

// UserRedisConfig Redis 连接配置
type UserRedisConfig struct {
	Addr     *string `json:"addr,omitempty"`
	Password *string `json:"password,omitempty"`
	DB       *int    `json:"db,omitempty"`
	PoolSize *int    `json:"pool_size,omitempty"`
}

// UserInflightConfig 在途指纹锁配置
type UserInflightConfig struct {
	Backend    *string          `json:"backend,omitempty"` // memory | redis
	TTLSeconds *int             `json:"ttl_seconds,omitempty"`
	KeyPrefix  *string          `json:"key_prefix,omitempty"`
	Redis      *UserRedisConfig `json:"redis,omitempty"`
}

// UserCacheConfig 缓存配置
type UserCacheConfig struct {
	// Entries 按缓存名覆盖默认 ttl/容量
	Entries  map[string]UserCacheEntryConfig `json:"entries,omitempty"`
	Inflight *UserInflightConfig             `json:"inflight,omitempty"`
}

// UserMemoryStorageConfig 内存存储（bigcache）配置
type UserMemoryStorageConfig struct {
	LifeWindowSeconds *int `json:"life_window_seconds,omitempty"`
	MaxCacheSizeMB    *int `json:"max_cache_size_mb,omitempty"`
	Shards            *int `json:"shards,omitempty"`
}

// UserStorageConfig 存储配置
type UserStorageConfig struct {
	Memory *UserMemoryStorageConfig `json:"memory,omitempty"`
}

// UserDeployConfig 合约部署配置
type UserDeployConfig struct {
	// hardhat 风格的编译产物（包含 abi 与 bytecode）
	ImmutableArtifact   *string `json:"immutable_artifact,omitempty"`
	UpgradeableArtifact *string `json:"upgradeable_artifact,omitempty"`
	ProxyArtifact       *string `json:"proxy_artifact,omitempty"`
	ProxyAdminArtifact  *string `json:"proxy_admin_artifact,omitempty"`

	// 代理管理员地址；为空时每次可升级部署都新建一个 ProxyAdmin
	ProxyAdmin *string `json:"proxy_admin,omitempty"`

	Initializer       *string `json:"initializer,omitempty"`
	PollingIntervalMs *int    `json:"polling_interval_ms,omitempty"`
}
