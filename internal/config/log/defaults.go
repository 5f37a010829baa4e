package log

import "os"

// 日志默认值
const (
	defaultLogLevel   = "info"
	defaultToConsole  = true
	defaultMaxSize    = 100 // MB
	defaultMaxBackups = 10
	defaultMaxAge     = 30 // 天
	defaultCompress   = true
	defaultCaller     = true
	defaultStacktrace = true
)

// 控制台输出目标
var (
	stdout = os.Stdout
	stderr = os.Stderr
)
