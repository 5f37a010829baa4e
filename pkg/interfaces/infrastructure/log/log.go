// Package log 定义 MintGate 的日志接口
//
// 实现位于 internal/core/infrastructure/log（zap + lumberjack）。
// 模块日志带 module 字段，HTTP 请求链路上的日志带 request_id 字段。
package log

import "go.uber.org/zap"

// Logger 日志记录器
//
// 只有 printf 风格与纯文本两种写法；结构化字段通过 With 附加，
// 需要 zap 原生能力（如 gin 中间件）时用 GetZapLogger。
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})

	// With 附加键值对字段，参数按 key, value 成对出现
	With(args ...interface{}) Logger

	// Sync 刷新缓冲区，进程退出前调用
	Sync() error

	GetZapLogger() *zap.Logger
}
