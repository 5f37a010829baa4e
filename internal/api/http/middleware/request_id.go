// Package middleware 提供 HTTP 网关的 gin 中间件
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// HeaderRequestID 请求ID头
const HeaderRequestID = "X-Request-ID"

const contextKeyRequestID = "request_id"

// RequestID 请求ID中间件
// 为每个请求生成唯一追踪ID，并把带 request_id 字段的日志器放入请求上下文
type RequestID struct {
	logger log.Logger
}

// NewRequestID 创建请求ID中间件
func NewRequestID(logger log.Logger) *RequestID {
	return &RequestID{logger: logger}
}

// Middleware 返回Gin中间件
func (m *RequestID) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 尝试从请求头获取已有的RequestID
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(contextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		if m.logger != nil {
			ctx := logimpl.IntoContext(c.Request.Context(), m.logger.With(contextKeyRequestID, requestID))
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// GetRequestID 从上下文或请求头获取请求ID（与 RequestID 中间件配合）
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(contextKeyRequestID); ok {
		if s, ok2 := v.(string); ok2 && s != "" {
			return s
		}
	}
	return c.GetHeader(HeaderRequestID)
}
