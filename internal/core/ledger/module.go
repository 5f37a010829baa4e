package ledger

import (
	"context"

	"go.uber.org/fx"

	ledgerconfig "github.com/weisyn/mintgate/internal/config/ledger"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// ModuleParams 账本模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Options   *ledgerconfig.LedgerOptions
	Logger    log.Logger
}

// Module 返回账本客户端模块
//
// 拨号是惰性的（ethclient 在首次调用时才建立 HTTP 连接），
// 因此节点暂时不可达不会阻止服务启动。
func Module() fx.Option {
	return fx.Module("ledger",
		fx.Provide(func(params ModuleParams) (Client, error) {
			client, err := Dial(context.Background(), params.Options)
			if err != nil {
				return nil, err
			}
			params.Logger.Infof("账本客户端已就绪: rpc=%s", params.Options.RPCURL)
			params.Lifecycle.Append(fx.Hook{
				OnStop: func(context.Context) error {
					client.Close()
					return nil
				},
			})
			return client, nil
		}),
	)
}
