package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	infralog "github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// KeyResultCode 处理器写入的业务结果码（OK、DUPLICATE、THRESHOLD ...）
const KeyResultCode = "result_code"

// Logger 请求日志中间件
//
// HTTP 状态几乎总是 200，业务结果在信封里，因此日志同时记录 result_code；
// 非 OK 的业务结果按 warn 级别输出。
type Logger struct {
	logger *zap.Logger
}

// NewLogger 创建请求日志中间件
func NewLogger(logger infralog.Logger) *Logger {
	zl := logger.GetZapLogger()
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Logger{logger: zl.Named("access")}
}

// Middleware 返回Gin中间件
func (m *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		level := zapcore.InfoLevel
		if code := c.GetString(KeyResultCode); code != "" {
			fields = append(fields, zap.String(KeyResultCode, code))
			if code != "OK" {
				level = zapcore.WarnLevel
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}

		if ce := m.logger.Check(level, "HTTP request"); ce != nil {
			ce.Write(fields...)
		}
	}
}
