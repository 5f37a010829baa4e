package proxy

import (
	"go.uber.org/fx"

	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	"github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/ledger"
	logiface "github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// Module 提供代理解析器
func Module() fx.Option {
	return fx.Module("proxy",
		fx.Provide(func(client ledger.Client, registry *cache.Registry, logger logiface.Logger) *Resolver {
			return NewResolver(client, registry, log.NewModuleLogger(logger, "proxy"))
		}),
	)
}
