package cache

import "time"

// 命名缓存
const (
	NameBalanceObserver          = "balanceObserver"
	NameTotalSupplyOfNFT         = "totalSupplyOfNFT"
	NameEstimateGasOfTransferNFT = "estimateGasOfTransferNFT"
	NameOwnerOfNFT               = "OwnerOfNFT"
	NameTxResponse               = "TxResponse"
	NameVerifySignature          = "verifySignature"
	NameVerifyAddress            = "verifyAddress"
	NameProxyResolution          = "proxyResolution"
)

// EntryOptions 单个命名缓存的 ttl 与容量
//
// TTL 为 0 表示永不过期（只受 LRU 容量约束）。
type EntryOptions struct {
	TTL      time.Duration `json:"ttl"`
	Capacity int           `json:"capacity"`
}

// defaultEntries 各命名缓存的默认参数
var defaultEntries = map[string]EntryOptions{
	NameBalanceObserver:          {TTL: 3 * time.Second, Capacity: 1000},
	NameTotalSupplyOfNFT:         {TTL: 3 * time.Second, Capacity: 1000},
	NameEstimateGasOfTransferNFT: {TTL: 60 * time.Second, Capacity: 1000},
	NameOwnerOfNFT:               {TTL: 60 * time.Second, Capacity: 100000},
	NameTxResponse:               {TTL: 30 * time.Second, Capacity: 100000},
	NameVerifySignature:          {TTL: 10 * time.Minute, Capacity: 10000},
	NameVerifyAddress:            {TTL: 10 * time.Minute, Capacity: 1000},
	// 代理与否在部署后不可变
	NameProxyResolution: {TTL: 0, Capacity: 100000},
}

// 未登记名称的兜底参数
const (
	defaultTTL      = time.Minute
	defaultCapacity = 10
)

// 在途锁默认值
const (
	InflightBackendMemory = "memory"
	InflightBackendRedis  = "redis"

	defaultInflightBackend   = InflightBackendMemory
	defaultInflightTTL       = 2 * time.Minute
	defaultInflightKeyPrefix = "mintgate:inflight:"

	defaultRedisAddr     = "127.0.0.1:6379"
	defaultRedisPoolSize = 10
)
