package receipt

import (
	"go.uber.org/fx"

	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	"github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/ledger"
	logiface "github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/storage"
)

// ModuleParams 回执模块依赖
type ModuleParams struct {
	fx.In

	Ledger ledger.Client
	Memory storage.MemoryStore `optional:"true"`
	Mint   *mintconfig.Config
	Logger logiface.Logger
}

// Module 提供回执存储与解释器
func Module() fx.Option {
	return fx.Module("receipt",
		fx.Provide(
			func(params ModuleParams) *Store {
				return NewStore(params.Ledger, params.Memory, log.NewModuleLogger(params.Logger, "receipt"))
			},
			func(store *Store, params ModuleParams) *Interpreter {
				return NewInterpreter(store, params.Mint, log.NewModuleLogger(params.Logger, "receipt"))
			},
		),
	)
}
