package config

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/weisyn/mintgate/pkg/interfaces/config"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/types"
)

// Reloader 重新读取配置文件并应用可热更新的配置项
//
// 目前只有熔断阈值（tx.gas_price_threshold_gwei）支持热更新，
// 其余配置项变更需要重启进程。
type Reloader struct {
	path     string
	provider config.Provider
	logger   log.Logger
}

// NewReloader 创建配置重载器
func NewReloader(path string, provider config.Provider, logger log.Logger) *Reloader {
	return &Reloader{path: path, provider: provider, logger: logger}
}

// Reload 读取配置文件并替换熔断阈值，返回生效的阈值
//
// 文件不可读、校验失败或阈值非法时保留原阈值。
func (r *Reloader) Reload() (string, error) {
	appConfig, err := LoadAppConfig(r.path)
	if err != nil {
		return "", err
	}
	if err := ValidateMandatoryConfig(appConfig); err != nil {
		return "", err
	}
	threshold := *appConfig.Tx.GasPriceThresholdGwei
	if err := r.provider.GetTx().SetThresholdGwei(threshold); err != nil {
		return "", fmt.Errorf("%w: tx.gas_price_threshold_gwei %q: %w", types.ErrConfiguration, threshold, err)
	}
	return threshold, nil
}

// Run 每收到一个信号执行一次 Reload，直到 ctx 取消或通道关闭
func (r *Reloader) Run(ctx context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			previous := r.provider.GetTx().ThresholdGwei()
			threshold, err := r.Reload()
			if r.logger == nil {
				continue
			}
			if err != nil {
				r.logger.Errorf("配置重载失败，保留熔断阈值 %s gwei: %v", previous, err)
				continue
			}
			r.logger.Infof("配置已重载: %s, 熔断阈值 %s → %s gwei", r.path, previous, threshold)
		}
	}
}

// ReloadParams 重载器依赖参数
type ReloadParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Provider   config.Provider
	AppOptions config.AppOptions `optional:"true"`
	Logger     log.Logger        `optional:"true"`
}

// registerReloader 配置来自文件时监听 SIGHUP
func registerReloader(params ReloadParams) {
	if params.AppOptions == nil || params.AppOptions.GetConfigFilePath() == "" {
		return
	}
	reloader := NewReloader(params.AppOptions.GetConfigFilePath(), params.Provider, params.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			signal.Notify(signals, syscall.SIGHUP)
			go reloader.Run(ctx, signals)
			return nil
		},
		OnStop: func(context.Context) error {
			signal.Stop(signals)
			cancel()
			return nil
		},
	})
}
