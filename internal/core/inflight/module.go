package inflight

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// ModuleParams 在途锁模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *cacheconfig.Config
	Logger    log.Logger
	Clock     clock.Clock `optional:"true"`
}

// Module 按 cache.inflight.backend 提供在途锁
func Module() fx.Option {
	return fx.Module("inflight",
		fx.Provide(ProvideLocker),
	)
}

// ProvideLocker 创建在途锁
func ProvideLocker(params ModuleParams) (Locker, error) {
	options := params.Config.GetOptions().Inflight
	switch options.Backend {
	case cacheconfig.InflightBackendMemory, "":
		params.Logger.Infof("在途锁后端: memory ttl=%s", options.TTL)
		return NewMemoryLocker(params.Clock), nil
	case cacheconfig.InflightBackendRedis:
		locker, err := NewRedisLocker(options)
		if err != nil {
			return nil, err
		}
		params.Logger.Infof("在途锁后端: redis addr=%s ttl=%s", options.Redis.Addr, options.TTL)
		params.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return locker.Close()
			},
		})
		return locker, nil
	default:
		return nil, fmt.Errorf("unsupported inflight backend %q", options.Backend)
	}
}
