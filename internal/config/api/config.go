package api

import (
	"time"

	"github.com/weisyn/mintgate/pkg/types"
)

// APIOptions API服务配置选项
type APIOptions struct {
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	ReadTimeout  time.Duration `json:"read_timeout"`  // 读取超时时间
	WriteTimeout time.Duration `json:"write_timeout"` // 写入超时时间

	// 限流（按客户端IP的令牌桶）
	RateLimitEnabled bool    `json:"rate_limit_enabled"`
	RateLimitRPS     float64 `json:"rate_limit_rps"`
	RateLimitBurst   int     `json:"rate_limit_burst"`

	MetricsEnabled bool `json:"metrics_enabled"` // 是否暴露 /metrics
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置：先默认值，再用户覆盖
func New(userConfig *types.UserAPIConfig) *Config {
	options := createDefaultAPIOptions()
	applyUserAPIConfig(options, userConfig)
	return &Config{options: options}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:          defaultHTTPEnabled,
			Host:             defaultHTTPHost,
			Port:             defaultHTTPPort,
			ReadTimeout:      defaultReadTimeout,
			WriteTimeout:     defaultWriteTimeout,
			RateLimitEnabled: defaultRateLimitEnabled,
			RateLimitRPS:     defaultRateLimitRPS,
			RateLimitBurst:   defaultRateLimitBurst,
			MetricsEnabled:   defaultMetricsEnabled,
		},
	}
}

// applyUserAPIConfig 应用用户API配置
func applyUserAPIConfig(options *APIOptions, user *types.UserAPIConfig) {
	if user == nil {
		return
	}
	if user.HTTPEnabled != nil {
		options.HTTP.Enabled = *user.HTTPEnabled
	}
	if user.HTTPHost != nil {
		options.HTTP.Host = *user.HTTPHost
	}
	if user.HTTPPort != nil {
		options.HTTP.Port = *user.HTTPPort
	}
	if user.ReadTimeoutSeconds != nil {
		options.HTTP.ReadTimeout = time.Duration(*user.ReadTimeoutSeconds) * time.Second
	}
	if user.WriteTimeoutSeconds != nil {
		options.HTTP.WriteTimeout = time.Duration(*user.WriteTimeoutSeconds) * time.Second
	}
	if user.RateLimitEnabled != nil {
		options.HTTP.RateLimitEnabled = *user.RateLimitEnabled
	}
	if user.RateLimitRPS != nil {
		options.HTTP.RateLimitRPS = *user.RateLimitRPS
	}
	if user.RateLimitBurst != nil {
		options.HTTP.RateLimitBurst = *user.RateLimitBurst
	}
	if user.MetricsEnabled != nil {
		options.HTTP.MetricsEnabled = *user.MetricsEnabled
	}
}

// GetOptions 获取API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}
