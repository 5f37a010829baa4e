// Package storage 提供存储管理功能
package storage

import (
	"context"

	"go.uber.org/fx"

	"github.com/weisyn/mintgate/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/mintgate/pkg/interfaces/config"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/mintgate/pkg/interfaces/infrastructure/storage"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider // 配置提供者
	Logger    log.Logger      // 日志记录器
	Clock     clock.Clock     `optional:"true"`
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	MemoryStore storageInterface.MemoryStore
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供存储服务，并在应用停止时关闭
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	store, err := memory.New(params.Provider.GetMemoryStore(), params.Logger, params.Clock)
	if err != nil {
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("正在关闭内存存储...")
			return store.Close()
		},
	})

	return ModuleOutput{MemoryStore: store}, nil
}
