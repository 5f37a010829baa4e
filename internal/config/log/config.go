// Package log 定义日志输出配置
package log

import (
	"strings"

	"go.uber.org/zap/zapcore"

	configtypes "github.com/weisyn/mintgate/pkg/types"
)

// LogOptions 日志配置选项
type LogOptions struct {
	Level     string `json:"level"`      // debug | info | warn | error | fatal
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	FilePath  string `json:"file_path"`  // 为空时不写文件；stdout/stderr 视为控制台

	// lumberjack 轮转参数
	MaxSize    int  `json:"max_size"`
	MaxBackups int  `json:"max_backups"`
	MaxAge     int  `json:"max_age"`
	Compress   bool `json:"compress"`

	Caller     bool `json:"caller"`     // 记录调用位置
	Stacktrace bool `json:"stacktrace"` // error 及以上附带堆栈
}

// Config 日志配置
type Config struct {
	options *LogOptions
}

// New 默认值之上叠加用户配置
func New(user *configtypes.UserLogConfig) *Config {
	options := &LogOptions{
		Level:      defaultLogLevel,
		ToConsole:  defaultToConsole,
		MaxSize:    defaultMaxSize,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAge,
		Compress:   defaultCompress,
		Caller:     defaultCaller,
		Stacktrace: defaultStacktrace,
	}

	if user != nil {
		if user.Level != nil {
			options.Level = *user.Level
		}
		if user.FilePath != nil {
			options.FilePath = *user.FilePath
			// 写文件时默认不再刷控制台
			options.ToConsole = false
		}
		if user.ToConsole != nil {
			options.ToConsole = *user.ToConsole
		}
		if user.MaxSize != nil {
			options.MaxSize = *user.MaxSize
		}
		if user.MaxBackups != nil {
			options.MaxBackups = *user.MaxBackups
		}
		if user.MaxAge != nil {
			options.MaxAge = *user.MaxAge
		}
		if user.Compress != nil {
			options.Compress = *user.Compress
		}
	}

	return &Config{options: options}
}

// FromOptions 包装已解析的选项（由 config.Provider 提供）
func FromOptions(options *LogOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}

// GetOptions 获取日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// ZapLevel 解析日志级别，无法识别时使用 info
func (c *Config) ZapLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(c.options.Level)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// ConsoleOutput 返回控制台输出目标；nil 表示不输出到控制台
func (c *Config) ConsoleOutput() zapcore.WriteSyncer {
	switch {
	case c.options.FilePath == "stderr":
		return zapcore.Lock(zapcore.AddSync(stderr))
	case c.options.FilePath == "stdout" || c.options.ToConsole:
		return zapcore.Lock(zapcore.AddSync(stdout))
	}
	return nil
}

// LogFile 返回日志文件路径；控制台别名不算文件
func (c *Config) LogFile() string {
	switch c.options.FilePath {
	case "stdout", "stderr":
		return ""
	}
	return c.options.FilePath
}

// FileEncoder 文件输出使用 JSON
func (c *Config) FileEncoder() zapcore.Encoder {
	cfg := encoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// ConsoleEncoder 控制台输出使用彩色文本
func (c *Config) ConsoleEncoder() zapcore.Encoder {
	cfg := encoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
