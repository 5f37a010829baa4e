package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// 最多跟踪的客户端数，超出按 LRU 淘汰
const maxTrackedClients = 10000

// RateLimit 按客户端IP的令牌桶限流中间件
type RateLimit struct {
	logger *zap.Logger
	rps    rate.Limit
	burst  int

	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
}

// NewRateLimit 创建限流中间件
func NewRateLimit(logger *zap.Logger, rps float64, burst int) *RateLimit {
	limiters, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	return &RateLimit{
		logger:   logger,
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: limiters,
	}
}

// Middleware 返回Gin中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()
		if !m.limiter(clientID).Allow() {
			m.logger.Debug("rate limit exceeded", zap.String("client_ip", clientID), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

func (m *RateLimit) limiter(clientID string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limiter, ok := m.limiters.Get(clientID); ok {
		return limiter
	}
	limiter := rate.NewLimiter(m.rps, m.burst)
	m.limiters.Add(clientID, limiter)
	return limiter
}
