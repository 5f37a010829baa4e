package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/types"
)

// writeConfig 写入阈值为 threshold 的合法配置文件
func writeConfig(t *testing.T, path, threshold string) {
	t.Helper()
	cfg := validConfig()
	cfg.Tx.GasPriceThresholdGwei = types.StringPtr(threshold)
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestReloader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, "50")

	appConfig, err := LoadAppConfig(path)
	require.NoError(t, err)
	provider := NewProvider(appConfig)
	tx := provider.GetTx()
	reloader := NewReloader(path, provider, nil)

	// 🎯 文件中的新阈值对已持有 tx 配置的组件立即生效
	writeConfig(t, path, "88.5")
	threshold, err := reloader.Reload()
	require.NoError(t, err)
	assert.Equal(t, "88.5", threshold)
	assert.Equal(t, "88.5", tx.ThresholdGwei())

	t.Run("非法阈值保留原值", func(t *testing.T) {
		writeConfig(t, path, "abc")
		_, err := reloader.Reload()
		require.Error(t, err)
		assert.Equal(t, "88.5", tx.ThresholdGwei())
	})

	t.Run("文件损坏保留原值", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		_, err := reloader.Reload()
		require.Error(t, err)
		assert.Equal(t, "88.5", tx.ThresholdGwei())
	})
}

// 📋 每个信号触发一次重载
func TestReloader_RunOnSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, "40")

	appConfig, err := LoadAppConfig(path)
	require.NoError(t, err)
	provider := NewProvider(appConfig)
	reloader := NewReloader(path, provider, logimpl.NewFromZap(zap.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		reloader.Run(ctx, signals)
		close(done)
	}()

	writeConfig(t, path, "65")
	signals <- syscall.SIGHUP
	require.Eventually(t, func() bool {
		return provider.GetTx().ThresholdGwei() == "65"
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run 未在 ctx 取消后退出")
	}
}
