package keystore

import (
	"go.uber.org/fx"

	keystoreconfig "github.com/weisyn/mintgate/internal/config/keystore"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// Module 返回密钥库模块
func Module() fx.Option {
	return fx.Module("keystore",
		fx.Provide(func(options *keystoreconfig.KeystoreOptions, logger log.Logger) Resolver {
			return NewFileResolver(options, logger)
		}),
	)
}
