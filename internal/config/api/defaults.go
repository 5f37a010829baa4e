package api

import "time"

// API服务默认值
const (
	defaultHTTPEnabled = true
	defaultHTTPHost    = "0.0.0.0"
	defaultHTTPPort    = 8080

	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second

	// 限流：每个客户端IP每秒 50 个请求，突发 100
	defaultRateLimitEnabled = true
	defaultRateLimitRPS     = 50.0
	defaultRateLimitBurst   = 100

	defaultMetricsEnabled = true
)
