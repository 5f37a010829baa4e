package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/weisyn/mintgate/internal/api"
	config "github.com/weisyn/mintgate/internal/config"
	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/internal/core/inflight"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	"github.com/weisyn/mintgate/internal/core/infrastructure/clock"
	"github.com/weisyn/mintgate/internal/core/infrastructure/event"
	log "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/infrastructure/metrics"
	"github.com/weisyn/mintgate/internal/core/infrastructure/storage"
	"github.com/weisyn/mintgate/internal/core/keystore"
	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/internal/core/network"
	"github.com/weisyn/mintgate/internal/core/orchestrator"
	"github.com/weisyn/mintgate/internal/core/proxy"
	"github.com/weisyn/mintgate/internal/core/receipt"
	configiface "github.com/weisyn/mintgate/pkg/interfaces/config"
)

// Framework layers
const (
	// 基础设施层
	LayerInfrastructure = "infrastructure"
	// 通信与数据层
	LayerCommunication = "communication"
	// 业务逻辑层
	LayerBusiness = "business"
	// 应用层
	LayerApplication = "application"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 配置、日志、时钟、指标
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configiface.AppOptions { return b.opts }),
		config.Module(),
		log.Module(),
		clock.Module(),
		event.Module(),
		metrics.Module(),
	}
}

// SetupCommunicationLayer 存储、缓存、账本连接、密钥库
func (b *Bootstrap) SetupCommunicationLayer() []fx.Option {
	return []fx.Option{
		storage.Module(),
		cache.Module(),
		inflight.Module(),
		ledger.Module(),
		keystore.Module(),
	}
}

// SetupBusinessLayer 合约、代理识别、回执、编排与链查询
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		contract.Module(),
		proxy.Module(),
		receipt.Module(),
		orchestrator.Module(),
		network.Module(),
	}
}

// SetupApplicationLayer 对外接口
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	if !b.opts.enableAPI {
		return nil
	}
	return []fx.Option{api.Module()}
}

// SetupModules 按依赖顺序汇总各层模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var modules []fx.Option
	modules = append(modules, b.SetupInfrastructureLayer()...)
	modules = append(modules, b.SetupCommunicationLayer()...)
	modules = append(modules, b.SetupBusinessLayer()...)
	modules = append(modules, b.SetupApplicationLayer()...)
	modules = append(modules, b.opts.extra...)
	return modules
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	if b.opts.appConfig == nil && b.opts.configFilePath != "" {
		appConfig, err := config.LoadAppConfig(b.opts.configFilePath)
		if err != nil {
			return err
		}
		b.opts.appConfig = appConfig
	}

	b.fxApp = fx.New(
		fx.Options(b.SetupModules()...),
		fx.NopLogger,
	)
	return b.fxApp.Err()
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}
