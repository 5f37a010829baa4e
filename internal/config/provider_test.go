package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/pkg/types"
)

// TestGetEnvironment 测试 GetEnvironment() 方法
func TestGetEnvironment(t *testing.T) {
	t.Run("显式配置 dev", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{Environment: types.StringPtr("dev")})
		assert.Equal(t, "dev", provider.GetEnvironment())
	})

	t.Run("大小写与空白不敏感", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{Environment: types.StringPtr(" Test ")})
		assert.Equal(t, "test", provider.GetEnvironment())
	})

	t.Run("未配置时默认为 prod（安全优先）", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{})
		assert.Equal(t, "prod", provider.GetEnvironment())
	})

	t.Run("无效值默认为 prod", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{Environment: types.StringPtr("staging")})
		assert.Equal(t, "prod", provider.GetEnvironment())
	})

	t.Run("nil 配置", func(t *testing.T) {
		provider := NewProvider(nil)
		assert.Equal(t, "prod", provider.GetEnvironment())
		assert.NotNil(t, provider.GetAppConfig())
	})
}

// TestGetLog_DevDefaultsToDebug 开发环境默认 debug 级别
func TestGetLog_DevDefaultsToDebug(t *testing.T) {
	provider := NewProvider(&types.AppConfig{Environment: types.StringPtr("dev")})
	assert.Equal(t, "debug", provider.GetLog().Level)

	provider = NewProvider(&types.AppConfig{
		Environment: types.StringPtr("dev"),
		Log:         &types.UserLogConfig{Level: types.StringPtr("warn")},
	})
	assert.Equal(t, "warn", provider.GetLog().Level)
}

// TestGetTx_SameInstance 热更新阈值对所有持有者可见
func TestGetTx_SameInstance(t *testing.T) {
	provider := NewProvider(&types.AppConfig{
		Tx: &types.UserTxConfig{GasPriceThresholdGwei: types.StringPtr("50")},
	})

	first := provider.GetTx()
	require.NoError(t, first.SetThresholdGwei("75.5"))

	second := provider.GetTx()
	assert.Same(t, first, second)
	assert.Equal(t, "75.5", second.ThresholdGwei())

	wei, err := second.Threshold()
	require.NoError(t, err)
	assert.Equal(t, "75500000000", wei.String())
}

// TestGetCache_UserOverrides 用户覆盖命名缓存参数
func TestGetCache_UserOverrides(t *testing.T) {
	provider := NewProvider(&types.AppConfig{
		Cache: &types.UserCacheConfig{
			Entries: map[string]types.UserCacheEntryConfig{
				cacheconfig.NameOwnerOfNFT: {TTLMs: types.Int64Ptr(500)},
				"custom":                   {Capacity: types.IntPtr(3)},
			},
			Inflight: &types.UserInflightConfig{Backend: types.StringPtr("redis")},
		},
	})

	cfg := provider.GetCache()
	owner := cfg.Entry(cacheconfig.NameOwnerOfNFT)
	assert.Equal(t, 500*time.Millisecond, owner.TTL)
	assert.Equal(t, 100000, owner.Capacity)

	custom := cfg.Entry("custom")
	assert.Equal(t, time.Minute, custom.TTL)
	assert.Equal(t, 3, custom.Capacity)

	assert.Equal(t, time.Duration(0), cfg.Entry(cacheconfig.NameProxyResolution).TTL)
	assert.Equal(t, "redis", cfg.GetOptions().Inflight.Backend)
}

// TestLoadAppConfig 从文件加载配置
func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"environment": "test",
		"ledger": {"rpc_url": "http://localhost:8545"},
		"tx": {"gas_price_threshold_gwei": "100", "gas_price_c": 90},
		"mint": {"minters": [{"address": "0x00000000000000000000000000000000000000a1", "key_ref": "MINTER_PASS"}]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	appConfig, err := LoadAppConfig(path)
	require.NoError(t, err)
	require.NoError(t, ValidateMandatoryConfig(appConfig))

	provider := NewProvider(appConfig)
	assert.Equal(t, "test", provider.GetEnvironment())
	assert.Equal(t, "http://localhost:8545", provider.GetLedger().RPCURL)
	// 低于 100 的系数按 100 处理
	assert.Equal(t, uint64(100), provider.GetTx().GasPriceC())
	require.Len(t, provider.GetMint().GetOptions().Minters, 1)
	assert.Equal(t, "MINTER_PASS", provider.GetMint().GetOptions().Minters[0].KeyRef)

	_, err = LoadAppConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = ParseAppConfig([]byte("{not json"))
	assert.Error(t, err)
}
