package cache

import (
	"go.uber.org/fx"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/clock"
)

// ModuleInput 缓存模块输入依赖
type ModuleInput struct {
	fx.In

	Config *cacheconfig.Config
	Clock  clock.Clock `optional:"true"`
}

// Module 返回缓存模块
func Module() fx.Option {
	return fx.Module("cache",
		fx.Provide(func(input ModuleInput) *Registry {
			return NewRegistry(input.Config, input.Clock)
		}),
	)
}
