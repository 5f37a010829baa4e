package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/weisyn/mintgate/pkg/types"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New(nil)
	assert.Equal(t, zapcore.InfoLevel, cfg.ZapLevel())
	assert.NotNil(t, cfg.ConsoleOutput())
	assert.Empty(t, cfg.LogFile())
	assert.True(t, cfg.GetOptions().Compress)
}

// 指定文件时默认关闭控制台，除非显式打开
func TestNew_FileDisablesConsole(t *testing.T) {
	cfg := New(&types.UserLogConfig{FilePath: types.StringPtr("/var/log/mintgate.log")})
	assert.Nil(t, cfg.ConsoleOutput())
	assert.Equal(t, "/var/log/mintgate.log", cfg.LogFile())

	cfg = New(&types.UserLogConfig{
		FilePath:  types.StringPtr("/var/log/mintgate.log"),
		ToConsole: types.BoolPtr(true),
		Compress:  types.BoolPtr(false),
	})
	assert.NotNil(t, cfg.ConsoleOutput())
	assert.False(t, cfg.GetOptions().Compress)
}

func TestConsoleAliases(t *testing.T) {
	for _, alias := range []string{"stdout", "stderr"} {
		cfg := New(&types.UserLogConfig{FilePath: types.StringPtr(alias)})
		assert.NotNil(t, cfg.ConsoleOutput(), alias)
		assert.Empty(t, cfg.LogFile(), alias)
	}
}

func TestZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for level, want := range cases {
		cfg := New(&types.UserLogConfig{Level: types.StringPtr(level)})
		assert.Equal(t, want, cfg.ZapLevel(), level)
	}
}
